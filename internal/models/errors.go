package models

import (
	"errors"
)

var (
	ErrListingNotFound        = errors.New("models: listing not found")
	ErrImageNotFound          = errors.New("models: listing image not found")
	ErrUserNotFound           = errors.New("models: user not found")
	ErrConversationNotFound   = errors.New("models: conversation not found")
	ErrNotOwner               = errors.New("models: requester is not the listing owner")
	ErrInvalidStateTransition = errors.New("models: invalid listing state transition")
	ErrValidation             = errors.New("models: validation failed")
	ErrAlreadyReviewed        = errors.New("models: listing already reviewed by this user")
	ErrNotEligibleToReview    = errors.New("models: user is not eligible to review this listing")
	ErrConversationForbidden  = errors.New("models: conversation access denied")
	ErrSelfConversation       = errors.New("models: conversation with oneself is not allowed")
	ErrInvalidCredentials     = errors.New("models: invalid credentials")
	ErrDuplicateEmail         = errors.New("models: duplicate email")
	ErrDuplicatePhone         = errors.New("models: duplicate phone number")
)
