package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/testutil"
)

func Test_CommentRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, testFunc func(user models.User, blog models.Blog, r *CommentRepo)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			blogs := &BlogRepo{DB: tx}

			user, err := users.CreateUser(t.Context(), newUserParams("commenter"))
			require.NoError(t, err)
			blog, err := blogs.CreateBlog(t.Context(), newBlogParams(user.ID, "commented", models.BlogStatusPublished))
			require.NoError(t, err)

			testFunc(user, blog, &CommentRepo{DB: tx})
		})
	}

	t.Run("create and get", func(t *testing.T) {
		withTx(pg.Pool, t, func(user models.User, blog models.Blog, r *CommentRepo) {
			comment, err := r.CreateComment(t.Context(), blog.ID, user.ID, "well said")

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, comment.ID)
			assert.Equal(t, blog.ID, comment.BlogID)
			assert.Equal(t, user.ID, comment.UserID)
			assert.Equal(t, "well said", comment.Content)

			got, err := r.GetCommentByID(t.Context(), comment.ID)
			require.NoError(t, err)
			assert.Equal(t, comment.ID, got.ID)

			_, err = r.GetCommentByID(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
		})
	})

	t.Run("list by blog", func(t *testing.T) {
		withTx(pg.Pool, t, func(user models.User, blog models.Blog, r *CommentRepo) {
			for _, content := range []string{"first", "second"} {
				_, err := r.CreateComment(t.Context(), blog.ID, user.ID, content)
				require.NoError(t, err)
			}

			comments, err := r.ListCommentsByBlog(t.Context(), blog.ID)
			require.NoError(t, err)
			assert.Len(t, comments, 2)

			comments, err = r.ListCommentsByBlog(t.Context(), uuid.New())
			require.NoError(t, err)
			assert.Empty(t, comments, "unknown blog should list nothing")
		})
	})

	t.Run("delete", func(t *testing.T) {
		withTx(pg.Pool, t, func(user models.User, blog models.Blog, r *CommentRepo) {
			comment, err := r.CreateComment(t.Context(), blog.ID, user.ID, "short lived")
			require.NoError(t, err)

			require.NoError(t, r.DeleteComment(t.Context(), comment.ID))

			err = r.DeleteComment(t.Context(), comment.ID)
			assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
		})
	})
}

func Test_LikeRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, testFunc func(user models.User, blog models.Blog, r *LikeRepo)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			blogs := &BlogRepo{DB: tx}

			user, err := users.CreateUser(t.Context(), newUserParams("liker"))
			require.NoError(t, err)
			blog, err := blogs.CreateBlog(t.Context(), newBlogParams(user.ID, "liked", models.BlogStatusPublished))
			require.NoError(t, err)

			testFunc(user, blog, &LikeRepo{DB: tx})
		})
	}

	t.Run("create like once", func(t *testing.T) {
		withTx(pg.Pool, t, func(user models.User, blog models.Blog, r *LikeRepo) {
			like, err := r.CreateLike(t.Context(), blog.ID, user.ID)

			require.NoError(t, err)
			assert.Equal(t, blog.ID, like.BlogID)
			assert.Equal(t, user.ID, like.UserID)

			_, err = r.CreateLike(t.Context(), blog.ID, user.ID)
			assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked, "one like per user per blog")
		})
	})

	t.Run("get and delete", func(t *testing.T) {
		withTx(pg.Pool, t, func(user models.User, blog models.Blog, r *LikeRepo) {
			created, err := r.CreateLike(t.Context(), blog.ID, user.ID)
			require.NoError(t, err)

			got, err := r.GetLike(t.Context(), blog.ID, user.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)

			require.NoError(t, r.DeleteLike(t.Context(), created.ID))

			_, err = r.GetLike(t.Context(), blog.ID, user.ID)
			assert.ErrorIs(t, err, apperrors.ErrLikeNotFound)

			err = r.DeleteLike(t.Context(), created.ID)
			assert.ErrorIs(t, err, apperrors.ErrLikeNotFound)
		})
	})
}
