// Package handler provides type-safe HTTP request handling for the authentication
// and authorization core's JSON API surface.
//
// The package offers a modern approach to HTTP handling with compile-time type safety
// and first-class JSON request/response binding, reducing boilerplate while maintaining
// explicitness and flexibility.
//
// # Core Concepts
//
// The handler package centers around generic handler functions that bind HTTP requests
// to Go structs and return typed responses. This eliminates manual request parsing and
// response encoding while providing compile-time guarantees:
//
//	type LoginRequest struct {
//		Email    string `json:"email" validate:"required,email"`
//		Password string `json:"password" validate:"required,min=8"`
//	}
//
//	func login(ctx handler.Context, req LoginRequest) handler.Response {
//		session, err := credentials.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(session)
//	}
//
//	http.HandleFunc("/login", handler.Wrap(login))
//
// # Architecture
//
// The package uses a layered architecture:
//
// 1. HandlerFunc - Generic function type that accepts typed requests and returns responses
// 2. Response Interface - Common interface for JSON responses
// 3. Context Interface - Enhanced context providing access to request and response
// 4. Decorators - Middleware-like functions for cross-cutting concerns
// 5. Error Handlers - Customizable error response formatting
//
// # Response Types
//
//	handler.JSON(data)                      // 200 OK with data
//	handler.JSON(data, WithJSONStatus(201))  // Custom status
//	handler.JSONError(err)                  // Error response
//
// The package has no redirect response type.
//
// # Error Handling
//
// The package provides structured error handling:
//
//	handler.ErrNotFound         // 404 with key "http.error.not_found"
//	handler.ErrUnauthorized     // 401 with key "http.error.unauthorized"
//
//	err := handler.NewValidationError()
//	err.Add("email", "Email is required")
//	err.Add("email", "Email format is invalid")
//	return handler.JSONError(err)  // 422 with field errors
//
// # Context Enhancement
//
// The Context interface extends standard context.Context with HTTP-specific methods:
//
//	ctx.Request()         // Access HTTP request
//	ctx.ResponseWriter()  // Access response writer
//
// # Usage
//
//	import "github.com/dmitrymomot/authcore/handler"
//
//	func createUser(ctx handler.Context, req CreateUserRequest) handler.Response {
//		return handler.JSON(result)
//	}
//
//	http.HandleFunc("/users", handler.Wrap(createUser))
//
// With custom options:
//
//	http.HandleFunc("/users", handler.Wrap(createUser,
//		handler.WithBinders(
//			binder.JSON(),
//			binder.Validate(),
//		),
//		handler.WithDecorators(
//			decorators.Logger(),
//			decorators.RequireAuth(),
//		),
//		handler.WithErrorHandler(customErrorHandler),
//	))
package handler
