package handlers

import (
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestGetParamColonAndPlain(t *testing.T) {
	r := httptest.NewRequest("GET", "/listings/42?:id=42", nil)
	if got := getParam(r, "id"); got != "42" {
		t.Errorf("colon param = %q, want 42", got)
	}

	r = httptest.NewRequest("GET", "/listings?status=sold", nil)
	if got := getParam(r, "status"); got != "sold" {
		t.Errorf("plain param = %q, want sold", got)
	}

	if got := getParam(nil, "id"); got != "" {
		t.Errorf("nil request = %q, want empty", got)
	}
}

func TestParseIntArray(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"1,2,3", []int{1, 2, 3}},
		{" 4 , 5 ", []int{4, 5}},
		{"7,x,8", []int{7, 8}},
	}
	for _, tc := range cases {
		if got := parseIntArray(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseIntArray(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestListingFromForm(t *testing.T) {
	form := url.Values{}
	form.Set("make", "  Honda ")
	form.Set("model", "City")
	form.Set("year", "2021")
	form.Set("price", "1250000.50")
	form.Set("kms_driven", "18000")
	form.Set("mileage", "17.8")
	form.Set("transmission", "Automatic")
	form.Set("fuel_type", "Petrol")
	form.Set("noc_available", "true")
	form.Set("description", "single owner")
	form.Set("location_city", "Mumbai")

	r := httptest.NewRequest("POST", "/listings", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	l := listingFromForm(r)
	if l.Make != "Honda" || l.Model != "City" {
		t.Errorf("make/model = %q/%q", l.Make, l.Model)
	}
	if l.Year != 2021 || l.KmsDriven != 18000 {
		t.Errorf("year/kms = %d/%d", l.Year, l.KmsDriven)
	}
	if l.Price != 1250000.50 || l.Mileage != 17.8 {
		t.Errorf("price/mileage = %v/%v", l.Price, l.Mileage)
	}
	if !l.NocAvailable || l.LocationCity != "Mumbai" {
		t.Errorf("noc/city = %v/%q", l.NocAvailable, l.LocationCity)
	}
}
