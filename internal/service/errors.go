package service

import (
	"errors"
	"fmt"

	"github.com/d60-Lab/contact-desk/internal/repository"
	"github.com/d60-Lab/contact-desk/internal/validation"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrStorage         = errors.New("storage error")
	ErrChallengeFailed = validation.ErrChallengeFailed
)

// storageErr 把仓储错误映射为服务层错误
func storageErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMessageNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
