// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"locker_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// allowedEmailDomain restricts self-registration to company addresses.
	// Staff accounts created by an admin are exempt.
	allowedEmailDomain = "@skrytki.pl"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateProfile はプロフィール項目（氏名・電話番号）を更新します。
	// hashedPassword が空でない場合はパスワードも更新します。
	UpdateProfile(ctx context.Context, id uint, firstName, lastName, phone, hashedPassword string) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string, role entity.Role) (string, error)
}

// SignupParams carries everything a self-registration submits.
type SignupParams struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	Phone         string
	AcceptTerms   bool
	AcceptPrivacy bool
	Marketing     bool
}

// ProfileUpdate carries the mutable profile fields.
// NewPassword empty means the password stays unchanged.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Phone       string
	NewPassword string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザー（role=user）を登録します。
// 規約同意とメールドメインの制限をここで強制します。
func (u *authUsecase) Signup(ctx context.Context, p SignupParams) error {
	if !p.AcceptTerms || !p.AcceptPrivacy {
		return ErrTermsNotAccepted
	}
	if !strings.HasSuffix(strings.ToLower(p.Email), allowedEmailDomain) {
		return ErrEmailDomainNotAllowed
	}
	if err := validatePassword(p.Password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:           p.Email,
		Password:        string(hashed),
		Role:            entity.RoleUser,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Phone:           p.Phone,
		AcceptedTerms:   p.AcceptTerms,
		AcceptedPrivacy: p.AcceptPrivacy,
		Marketing:       p.Marketing,
	}
	return u.users.Create(ctx, user)
}

// Login はユーザーを認証し、成功時にロール入りJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザー未検出時のタイミング攻撃緩和用ダミーハッシュ
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, tokenErr := u.jwtGenerator.GenerateToken(user.ID, user.Email, user.Role)
	if tokenErr != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", tokenErr)
	}
	return token, user, nil
}

// Profile は自分のアカウント情報を取得します。
func (u *authUsecase) Profile(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UpdateProfile は氏名・電話番号と、指定があればパスワードを更新します。
// メールアドレスとロールは不変です。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, p ProfileUpdate) error {
	if _, err := u.users.FindByID(ctx, userID); err != nil {
		return err
	}

	var hashed string
	if p.NewPassword != "" {
		if len(p.NewPassword) < minPasswordLength {
			return ErrWeakPassword
		}
		h, err := bcrypt.GenerateFromPassword([]byte(p.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashed = string(h)
	}

	return u.users.UpdateProfile(ctx, userID, p.FirstName, p.LastName, p.Phone, hashed)
}
