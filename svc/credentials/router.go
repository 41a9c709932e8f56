package credentials

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authcore/apperror"
	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/pipeline"
	"github.com/dmitrymomot/authcore/pkg/binder"
)

// RouterOptions configures the chi sub-router Handle builds.
type RouterOptions struct {
	// Pipeline authenticates the TOTP enrollment endpoints, which require a
	// caller identity rather than just a tenant.
	Pipeline *pipeline.Pipeline

	// Protected configures the RequireAuth call guarding TOTP endpoints.
	Protected pipeline.ProtectedOptions

	// Tenant configures how the unauthenticated endpoints (login, refresh,
	// forgot/reset password, verify email) resolve which realm a request
	// targets.
	Tenant pipeline.TenantOptions
}

// Handle builds the chi sub-router exposing login, refresh, logout,
// forgot/reset password, email verification, and TOTP enrollment, for
// mounting under e.g. /auth via chi's Mount. Satisfies the Mountable
// contract other service routers in this module follow.
func (s *Service) Handle(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", handler.Wrap(s.handleLogin(opts.Tenant), jsonBinder[LoginRequest](), errHandler[LoginRequest]()))
	r.Post("/refresh", handler.Wrap(s.handleRefresh(opts.Tenant), jsonBinder[RefreshRequest](), errHandler[RefreshRequest]()))
	r.Post("/logout", handler.Wrap(s.handleLogout(opts.Tenant), jsonBinder[LogoutRequest](), errHandler[LogoutRequest]()))
	r.Post("/forgot-password", handler.Wrap(s.handleForgotPassword(opts.Tenant), jsonBinder[ForgotPasswordRequest](), errHandler[ForgotPasswordRequest]()))
	r.Post("/reset-password", handler.Wrap(s.handleResetPassword(opts.Tenant), jsonBinder[ResetPasswordRequest](), errHandler[ResetPasswordRequest]()))
	r.Post("/verify-email", handler.Wrap(s.handleVerifyEmail(opts.Tenant), jsonBinder[VerifyEmailRequest](), errHandler[VerifyEmailRequest]()))

	r.Group(func(protected chi.Router) {
		protected.Use(opts.Pipeline.RequireAuth(opts.Protected, pipelineErrorHandler))

		protected.Post("/totp/enroll", handler.Wrap(handler.HandlerFunc[handler.Context, struct{}](s.handleEnrollTOTP), errHandler[struct{}]()))
		protected.Post("/totp/confirm", handler.Wrap(handler.HandlerFunc[handler.Context, ConfirmTOTPRequest](s.handleConfirmTOTP), jsonBinder[ConfirmTOTPRequest](), errHandler[ConfirmTOTPRequest]()))
		protected.Delete("/totp", handler.Wrap(handler.HandlerFunc[handler.Context, struct{}](s.handleRemoveTOTP), errHandler[struct{}]()))
	})

	return r
}

func pipelineErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	apperror.Write(w, err, nil)
}

// errHandler routes a handler's error through apperror's sentinel
// classification instead of handler's own generic HTTPError/ValidationError
// convention, so svc/credentials responses share the one JSON envelope the
// rest of the module's auth failures use. Errors reaching here that
// apperror doesn't recognize are always a binder rejection (bad
// content-type, malformed body, oversized payload) since every error this
// package's own methods return is already one of apperr's sentinels;
// classify those as ErrValidation rather than a 500.
func errHandler[R any]() handler.WrapOption[handler.Context, R] {
	return handler.WithErrorHandler[handler.Context, R](func(ctx handler.Context, err error) {
		if _, code := apperror.Classify(err); code == apperror.CodeInternal {
			err = errors.Join(ErrValidation, err)
		}
		apperror.Write(ctx.ResponseWriter(), err, nil)
	})
}

func jsonBinder[R any]() handler.WrapOption[handler.Context, R] {
	return handler.WithBinders[handler.Context, R](binder.JSON())
}

func (s *Service) handleLogin(tenantOpts pipeline.TenantOptions) handler.HandlerFunc[handler.Context, LoginRequest] {
	return func(ctx handler.Context, req LoginRequest) handler.Response {
		tenantID, err := pipeline.ResolveTenant(ctx.Request(), tenantOpts)
		if err != nil {
			return errorResponse(err)
		}
		resp, err := s.Login(ctx, tenantID, req)
		if err != nil {
			return errorResponse(err)
		}
		return handler.JSON(resp)
	}
}

func (s *Service) handleRefresh(tenantOpts pipeline.TenantOptions) handler.HandlerFunc[handler.Context, RefreshRequest] {
	return func(ctx handler.Context, req RefreshRequest) handler.Response {
		tenantID, err := pipeline.ResolveTenant(ctx.Request(), tenantOpts)
		if err != nil {
			return errorResponse(err)
		}
		resp, err := s.Refresh(ctx, tenantID, req)
		if err != nil {
			return errorResponse(err)
		}
		return handler.JSON(resp)
	}
}

func (s *Service) handleLogout(tenantOpts pipeline.TenantOptions) handler.HandlerFunc[handler.Context, LogoutRequest] {
	return func(ctx handler.Context, req LogoutRequest) handler.Response {
		tenantID, err := pipeline.ResolveTenant(ctx.Request(), tenantOpts)
		if err != nil {
			return errorResponse(err)
		}
		if err := s.Logout(ctx, tenantID, req); err != nil {
			return errorResponse(err)
		}
		return handler.JSON(map[string]bool{"ok": true})
	}
}

func (s *Service) handleForgotPassword(tenantOpts pipeline.TenantOptions) handler.HandlerFunc[handler.Context, ForgotPasswordRequest] {
	return func(ctx handler.Context, req ForgotPasswordRequest) handler.Response {
		tenantID, err := pipeline.ResolveTenant(ctx.Request(), tenantOpts)
		if err != nil {
			return errorResponse(err)
		}
		if err := s.ForgotPassword(ctx, tenantID, req); err != nil {
			return errorResponse(err)
		}
		return handler.JSON(map[string]bool{"ok": true})
	}
}

func (s *Service) handleResetPassword(tenantOpts pipeline.TenantOptions) handler.HandlerFunc[handler.Context, ResetPasswordRequest] {
	return func(ctx handler.Context, req ResetPasswordRequest) handler.Response {
		tenantID, err := pipeline.ResolveTenant(ctx.Request(), tenantOpts)
		if err != nil {
			return errorResponse(err)
		}
		if err := s.ResetPassword(ctx, tenantID, req); err != nil {
			return errorResponse(err)
		}
		return handler.JSON(map[string]bool{"ok": true})
	}
}

func (s *Service) handleVerifyEmail(tenantOpts pipeline.TenantOptions) handler.HandlerFunc[handler.Context, VerifyEmailRequest] {
	return func(ctx handler.Context, req VerifyEmailRequest) handler.Response {
		tenantID, err := pipeline.ResolveTenant(ctx.Request(), tenantOpts)
		if err != nil {
			return errorResponse(err)
		}
		if err := s.VerifyEmail(ctx, tenantID, req); err != nil {
			return errorResponse(err)
		}
		return handler.JSON(map[string]bool{"ok": true})
	}
}

func (s *Service) handleEnrollTOTP(ctx handler.Context, _ struct{}) handler.Response {
	ac := pipeline.MustFromContext(ctx.Request().Context())
	resp, err := s.EnrollTOTP(ctx, ac.InternalUserID, ac.Email)
	if err != nil {
		return errorResponse(err)
	}
	return handler.JSON(resp)
}

func (s *Service) handleConfirmTOTP(ctx handler.Context, req ConfirmTOTPRequest) handler.Response {
	ac := pipeline.MustFromContext(ctx.Request().Context())
	resp, err := s.ConfirmTOTP(ctx, ac.InternalUserID, req)
	if err != nil {
		return errorResponse(err)
	}
	return handler.JSON(resp)
}

func (s *Service) handleRemoveTOTP(ctx handler.Context, _ struct{}) handler.Response {
	ac := pipeline.MustFromContext(ctx.Request().Context())
	if ac.TenantID == nil {
		return errorResponse(ErrRealmNotConfigured)
	}
	if err := s.RemoveTOTP(ctx, *ac.TenantID, ac.InternalUserID, ac.Subject); err != nil {
		return errorResponse(err)
	}
	return handler.JSON(map[string]bool{"ok": true})
}

// errorResponse renders err as an apperror.Envelope, the same shape every
// other auth failure in this module responds with, rather than handler's
// own JSONResponse envelope.
func errorResponse(err error) handler.Response {
	return apperrorResponse{err: err}
}

type apperrorResponse struct {
	err error
}

func (r apperrorResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	apperror.Write(w, r.err, nil)
	return nil
}
