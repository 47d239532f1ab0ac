package handlers

import (
	"net/http"

	"github.com/avelichko/inkwell/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter wires the API routes. Middlewares are passed in rather than
// built here so the package stays free of the middleware import
func NewRouter(
	auth *AuthHandler,
	users *UserHandler,
	blogs *BlogHandler,
	authenticate func(http.Handler) http.Handler,
	authorize func(roles ...models.Role) func(http.Handler) http.Handler,
	common ...func(http.Handler) http.Handler,
) http.Handler {
	anyRole := authorize(models.RoleUser, models.RoleAdmin)
	adminOnly := authorize(models.RoleAdmin)

	api := http.NewServeMux()

	api.Handle("POST /auth/register", http.HandlerFunc(auth.register))
	api.Handle("POST /auth/login", http.HandlerFunc(auth.login))
	api.Handle("POST /auth/refresh-token", http.HandlerFunc(auth.refreshToken))
	api.Handle("POST /auth/logout", chain(http.HandlerFunc(auth.logout), authenticate))

	api.Handle("GET /users/current", chain(http.HandlerFunc(users.getCurrent), authenticate, anyRole))
	api.Handle("PUT /users/current", chain(http.HandlerFunc(users.updateCurrent), authenticate, anyRole))
	api.Handle("DELETE /users/current", chain(http.HandlerFunc(users.deleteCurrent), authenticate, anyRole))
	api.Handle("GET /users", chain(http.HandlerFunc(users.list), authenticate, adminOnly))
	api.Handle("GET /users/{userID}", chain(http.HandlerFunc(users.get), authenticate, adminOnly))
	api.Handle("DELETE /users/{userID}", chain(http.HandlerFunc(users.delete), authenticate, adminOnly))

	api.Handle("POST /blogs", chain(http.HandlerFunc(blogs.create), authenticate, adminOnly))
	api.Handle("GET /blogs", chain(http.HandlerFunc(blogs.list), authenticate, anyRole))
	api.Handle("GET /blogs/{slug}", chain(http.HandlerFunc(blogs.getBySlug), authenticate, anyRole))
	api.Handle("PUT /blogs/{blogID}", chain(http.HandlerFunc(blogs.update), authenticate, adminOnly))
	api.Handle("DELETE /blogs/{blogID}", chain(http.HandlerFunc(blogs.delete), authenticate, anyRole))

	api.Handle("POST /likes/blog/{blogID}", chain(http.HandlerFunc(blogs.like), authenticate, anyRole))
	api.Handle("DELETE /likes/blog/{blogID}", chain(http.HandlerFunc(blogs.unlike), authenticate, anyRole))

	api.Handle("POST /comments/blog/{blogID}", chain(http.HandlerFunc(blogs.createComment), authenticate, anyRole))
	api.Handle("GET /comments/blog/{blogID}", chain(http.HandlerFunc(blogs.listComments), authenticate, anyRole))
	api.Handle("DELETE /comments/{commentID}", chain(http.HandlerFunc(blogs.deleteComment), authenticate, anyRole))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", api))

	return chain(root, common...)
}
