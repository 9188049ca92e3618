package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simplyblog/internal/auth"
	"simplyblog/internal/httpserver/handlers"
	"simplyblog/internal/mediastore"
	"simplyblog/internal/service"
	"simplyblog/internal/store"
)

func NewRouter(db *gorm.DB, authSvc *service.AuthService, media mediastore.Store, lg *zap.SugaredLogger) http.Handler {
	blogs := store.NewBlogStore(db)
	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Post("/v1/auth/signup", handlers.Signup(authSvc, lg))
	r.Post("/v1/auth/login", handlers.Login(authSvc, lg))
	r.Get("/v1/auth/refresh/{refresh_token}", handlers.Refresh(authSvc, lg))
	r.Group(func(protected chi.Router) {
		protected.Use(auth.RequireUser(authSvc))
		protected.Get("/v1/auth/me", handlers.Me())
		protected.Post("/v1/auth/logout", handlers.Logout(authSvc))

		protected.Post("/v1/categories", handlers.CreateCategory(categories, lg))
		protected.Get("/v1/categories", handlers.ListCategories(categories, lg))
		protected.Get("/v1/categories/{uid}", handlers.GetCategory(categories, lg))
		protected.Patch("/v1/categories/{uid}", handlers.UpdateCategory(categories, lg))
		protected.Delete("/v1/categories/{uid}", handlers.DeleteCategory(categories, lg))

		protected.Post("/v1/tags", handlers.CreateTag(tags, lg))
		protected.Get("/v1/tags", handlers.ListTags(tags, lg))
		protected.Get("/v1/tags/{uid}", handlers.GetTag(tags, lg))
		protected.Patch("/v1/tags/{uid}", handlers.UpdateTag(tags, lg))
		protected.Delete("/v1/tags/{uid}", handlers.DeleteTag(tags, lg))

		protected.Post("/v1/blogs", handlers.CreateBlog(blogs, categories, tags, media, lg))
		protected.Get("/v1/blogs", handlers.ListBlogs(blogs, lg))
		protected.Get("/v1/blogs/{uid}", handlers.GetBlog(blogs, lg))
		protected.Patch("/v1/blogs/{uid}", handlers.UpdateBlog(blogs, tags, media, lg))
		protected.Delete("/v1/blogs/{uid}", handlers.DeleteBlog(blogs, lg))
		protected.Get("/v1/users/{uid}/blogs", handlers.ListBlogsByUser(blogs, lg))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
