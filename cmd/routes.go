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

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.Me))
	mux.Post("/user/fcm_token", authMiddleware.ThenFunc(app.userHandler.SetFCMToken))

	// Properties
	mux.Post("/property", authMiddleware.ThenFunc(app.propertyHandler.CreateProperty))
	mux.Get("/property/mine", authMiddleware.ThenFunc(app.propertyHandler.GetMyProperties))
	mux.Get("/property/:id", standardMiddleware.ThenFunc(app.propertyHandler.GetPropertyByID))
	mux.Put("/property/:id/status", authMiddleware.ThenFunc(app.propertyHandler.ChangeStatus))
	mux.Put("/property/:id", authMiddleware.ThenFunc(app.propertyHandler.UpdateProperty))
	mux.Del("/property/:id", authMiddleware.ThenFunc(app.propertyHandler.DeleteProperty))
	mux.Get("/properties", standardMiddleware.ThenFunc(app.propertyHandler.GetFilteredProperties))

	// Search
	mux.Get("/search", standardMiddleware.ThenFunc(app.searchHandler.Search))
	mux.Get("/ws/search", http.HandlerFunc(app.SearchSocketHandler))

	return standardMiddleware.Then(mux)
}
