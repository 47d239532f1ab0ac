package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/repository"
	"github.com/avelichko/inkwell/internal/testutil"
)

func newBlogParams(authorID uuid.UUID, slug string, status models.BlogStatus) repository.CreateBlogParams {
	return repository.CreateBlogParams{
		AuthorID: authorID,
		Title:    "Title for " + slug,
		Slug:     slug,
		Content:  "content",
		Banner:   models.Banner{URL: "https://cdn.example.com/" + slug + ".png", Width: 1200, Height: 630},
		Status:   status,
	}
}

func Test_BlogRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, testFunc func(author models.User, r *BlogRepo)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			author, err := users.CreateUser(t.Context(), newUserParams("author"))
			require.NoError(t, err)

			testFunc(author, &BlogRepo{DB: tx})
		})
	}

	t.Run("create blog ok", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			blog, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "first-post", models.BlogStatusDraft))

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, blog.ID)
			assert.Equal(t, author.ID, blog.AuthorID)
			assert.Equal(t, "first-post", blog.Slug)
			assert.Equal(t, models.BlogStatusDraft, blog.Status)
			assert.Equal(t, models.Banner{URL: "https://cdn.example.com/first-post.png", Width: 1200, Height: 630}, blog.Banner)
			assert.Zero(t, blog.ViewsCount)
			assert.WithinDuration(t, time.Now(), blog.PublishedAt, time.Second)
		})
	})

	t.Run("create blog slug taken", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			_, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "taken", models.BlogStatusDraft))
			require.NoError(t, err)

			_, err = r.CreateBlog(t.Context(), newBlogParams(author.ID, "taken", models.BlogStatusDraft))
			assert.ErrorIs(t, err, apperrors.ErrSlugTaken)
		})
	})

	t.Run("get blog", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			created, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "findme", models.BlogStatusPublished))
			require.NoError(t, err)

			byID, err := r.GetBlogByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, byID.ID)

			bySlug, err := r.GetBlogBySlug(t.Context(), "findme")
			require.NoError(t, err)
			assert.Equal(t, created.ID, bySlug.ID)

			_, err = r.GetBlogByID(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)

			_, err = r.GetBlogBySlug(t.Context(), "no-such-slug")
			assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
		})
	})

	t.Run("update blog", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			created, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "updatable", models.BlogStatusDraft))
			require.NoError(t, err)

			t.Run("partial update keeps the rest", func(t *testing.T) {
				status := models.BlogStatusPublished
				got, err := r.UpdateBlog(t.Context(), created.ID, repository.UpdateBlogParams{Status: &status})

				require.NoError(t, err)
				assert.Equal(t, models.BlogStatusPublished, got.Status)
				assert.Equal(t, created.Title, got.Title, "title should stay")
				assert.Equal(t, created.Banner, got.Banner, "banner should stay")
			})

			t.Run("banner replaced whole", func(t *testing.T) {
				banner := models.Banner{URL: "https://cdn.example.com/new.png", Width: 800, Height: 400}
				got, err := r.UpdateBlog(t.Context(), created.ID, repository.UpdateBlogParams{Banner: &banner})

				require.NoError(t, err)
				assert.Equal(t, banner, got.Banner)
			})

			t.Run("not found", func(t *testing.T) {
				title := "ghost"
				_, err := r.UpdateBlog(t.Context(), uuid.New(), repository.UpdateBlogParams{Title: &title})
				assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
			})
		})
	})

	t.Run("list and count with status filter", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			_, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "pub-one", models.BlogStatusPublished))
			require.NoError(t, err)
			_, err = r.CreateBlog(t.Context(), newBlogParams(author.ID, "pub-two", models.BlogStatusPublished))
			require.NoError(t, err)
			_, err = r.CreateBlog(t.Context(), newBlogParams(author.ID, "draft-one", models.BlogStatusDraft))
			require.NoError(t, err)

			t.Run("published only", func(t *testing.T) {
				total, err := r.CountBlogs(t.Context(), models.BlogStatusPublished)
				require.NoError(t, err)
				assert.Equal(t, int64(2), total)

				blogs, err := r.ListBlogs(t.Context(), repository.ListBlogsParams{
					Status: models.BlogStatusPublished,
					Limit:  10,
				})
				require.NoError(t, err)
				assert.Len(t, blogs, 2)
			})

			t.Run("empty status lists everything", func(t *testing.T) {
				total, err := r.CountBlogs(t.Context(), "")
				require.NoError(t, err)
				assert.Equal(t, int64(3), total)
			})

			t.Run("pagination", func(t *testing.T) {
				blogs, err := r.ListBlogs(t.Context(), repository.ListBlogsParams{Limit: 2, Offset: 2})
				require.NoError(t, err)
				assert.Len(t, blogs, 1)
			})
		})
	})

	t.Run("counters", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			created, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "counted", models.BlogStatusPublished))
			require.NoError(t, err)

			t.Run("views", func(t *testing.T) {
				require.NoError(t, r.IncViewsCount(t.Context(), created.ID))
				require.NoError(t, r.IncViewsCount(t.Context(), created.ID))

				got, err := r.GetBlogByID(t.Context(), created.ID)
				require.NoError(t, err)
				assert.Equal(t, int64(2), got.ViewsCount)
			})

			t.Run("likes never go negative", func(t *testing.T) {
				count, err := r.IncLikesCount(t.Context(), created.ID, 1)
				require.NoError(t, err)
				assert.Equal(t, int64(1), count)

				count, err = r.IncLikesCount(t.Context(), created.ID, -1)
				require.NoError(t, err)
				assert.Equal(t, int64(0), count)

				count, err = r.IncLikesCount(t.Context(), created.ID, -1)
				require.NoError(t, err)
				assert.Equal(t, int64(0), count, "counter should clamp at zero")
			})

			t.Run("comments counter unknown blog", func(t *testing.T) {
				_, err := r.IncCommentsCount(t.Context(), uuid.New(), 1)
				assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
			})
		})
	})

	t.Run("delete blog", func(t *testing.T) {
		withTx(pg.Pool, t, func(author models.User, r *BlogRepo) {
			created, err := r.CreateBlog(t.Context(), newBlogParams(author.ID, "deletable", models.BlogStatusDraft))
			require.NoError(t, err)

			require.NoError(t, r.DeleteBlog(t.Context(), created.ID))

			err = r.DeleteBlog(t.Context(), created.ID)
			assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
		})
	})
}
