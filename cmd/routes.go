package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/refresh", standardMiddleware.ThenFunc(app.userHandler.Refresh))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.GetMe))
	mux.Post("/user/avatar", authMiddleware.ThenFunc(app.userHandler.UploadAvatar))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))

	// Listings. Static paths go before /listings/:id so pat resolves them.
	mux.Get("/listings/options", standardMiddleware.ThenFunc(app.listingHandler.GetFilterOptions))
	mux.Get("/listings/compare", standardMiddleware.ThenFunc(app.listingHandler.CompareListings))
	mux.Get("/listings/my", authMiddleware.ThenFunc(app.listingHandler.GetMyListings))
	mux.Get("/listings", standardMiddleware.ThenFunc(app.listingHandler.GetListings))
	mux.Post("/listings", authMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Get("/listings/:id", standardMiddleware.ThenFunc(app.listingHandler.GetListingByID))
	mux.Put("/listings/:id", authMiddleware.ThenFunc(app.listingHandler.UpdateListing))
	mux.Del("/listings/:id", authMiddleware.ThenFunc(app.listingHandler.DeleteListing))
	mux.Post("/listings/:id/sold", authMiddleware.ThenFunc(app.listingHandler.MarkSold))
	mux.Del("/listings/images/:image_id", authMiddleware.ThenFunc(app.listingHandler.DeleteImage))

	// Moderation and analytics
	mux.Post("/admin/listings/:id/approve", adminAuthMiddleware.ThenFunc(app.listingHandler.ApproveListing))
	mux.Post("/admin/listings/:id/reject", adminAuthMiddleware.ThenFunc(app.listingHandler.RejectListing))
	mux.Get("/admin/dashboard", adminAuthMiddleware.ThenFunc(app.dashboardHandler.GetDashboard))

	// Wishlist
	mux.Post("/wishlist", authMiddleware.ThenFunc(app.wishlistHandler.ToggleWishlist))
	mux.Get("/wishlist", authMiddleware.ThenFunc(app.wishlistHandler.GetWishlist))

	// Messaging
	mux.Post("/messages", authMiddleware.ThenFunc(app.messageHandler.SendMessage))
	mux.Get("/messages/inbox", authMiddleware.ThenFunc(app.messageHandler.GetInbox))
	mux.Get("/messages/listing/:listing_id/user/:user_id", authMiddleware.ThenFunc(app.messageHandler.GetConversation))
	mux.Get("/ws", standardMiddleware.ThenFunc(app.WebSocketHandler))

	// Reviews
	mux.Post("/reviews", authMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Get("/purchases/my", authMiddleware.ThenFunc(app.reviewHandler.GetMyPurchases))
	mux.Get("/sellers/:seller_id/reviews", standardMiddleware.ThenFunc(app.reviewHandler.GetSellerReviews))
	mux.Get("/sellers/:seller_id/rating", standardMiddleware.ThenFunc(app.reviewHandler.GetSellerRating))

	// Push tokens
	mux.Post("/notify/token", authMiddleware.ThenFunc(app.notifyHandler.RegisterToken))
	mux.Del("/notify/token", authMiddleware.ThenFunc(app.notifyHandler.DeleteToken))

	return standardMiddleware.Then(mux)
}
