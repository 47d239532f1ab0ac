package postgres

import (
	"github.com/avelichko/inkwell/internal/repository"
)

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Blog() repository.BlogRepo {
	return &BlogRepo{DB: s.db}
}

func (s *Storage) Comment() repository.CommentRepo {
	return &CommentRepo{DB: s.db}
}

func (s *Storage) Like() repository.LikeRepo {
	return &LikeRepo{DB: s.db}
}
