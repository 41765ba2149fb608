package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CodePrefix is the public prefix of every package code.
const CodePrefix = "PKG-"

// codeAttempts bounds the duplicate-check retry loop. The store's unique
// constraint on package_code remains the final arbiter.
const codeAttempts = 5

// CodeChecker is the slice of QueryRepository code generation needs.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CodeGenerator mints unique public package codes of the form PKG-XXXXXXXX.
type CodeGenerator struct {
	repo CodeChecker
}

// NewCodeGenerator creates a CodeGenerator backed by the given checker.
func NewCodeGenerator(repo CodeChecker) *CodeGenerator {
	return &CodeGenerator{repo: repo}
}

// NewCode returns a fresh code not currently present in the store.
func (g *CodeGenerator) NewCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
		code := CodePrefix + suffix

		taken, err := g.repo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking package code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
