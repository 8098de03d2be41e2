package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"zaitan_backend/internal/feature/auth/domain/entity"
)

const (
	// codeLength は認証コードの桁数です。
	codeLength = 6

	defaultWeChatName = "微信用户"
	avatarBaseURL     = "https://api.dicebear.com/7.x/avataaars/svg?seed="
)

var (
	// phonePattern は中国本土の携帯電話番号にマッチします。
	phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// Options は認証ユースケースの動作設定です。
type Options struct {
	// CodeTTL は認証コードの有効期間です。
	CodeTTL time.Duration
	// BypassCode は常に検証を通過するコードです。空の場合は無効です。
	BypassCode string
	// ExposeCode が true の場合、SendCode は発行したコードを返します（開発環境用）。
	ExposeCode bool
}

// LoginResult はログイン成功時に返されるトークンとユーザーです。
type LoginResult struct {
	Token string
	User  *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	codes        CodeStore
	sms          SMSSender
	wechat       WeChatClient
	jwtGenerator JWTGenerator
	opts         Options

	generateCode func() (string, error)
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// wechat が nil の場合、WeChatログインは常に ErrWeChatAuthFailed を返します。
func NewAuthUsecase(users UserRepository, codes CodeStore, sms SMSSender, wechat WeChatClient, jwtGenerator JWTGenerator, opts Options) *authUsecase {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 5 * time.Minute
	}
	return &authUsecase{
		users:        users,
		codes:        codes,
		sms:          sms,
		wechat:       wechat,
		jwtGenerator: jwtGenerator,
		opts:         opts,
		generateCode: randomCode,
	}
}

// ValidPhone reports whether phone is a mainland China mobile number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// randomCode は crypto/rand で6桁のコードを生成します。
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}

// SendCode は認証コードを発行してSMSで送信し、ハッシュを保存します。
// SMS送信に失敗した場合、コードは保存されません。
// 戻り値のコードは ExposeCode が有効な場合のみ設定されます。
func (u *authUsecase) SendCode(ctx context.Context, phone string) (string, error) {
	if !ValidPhone(phone) {
		return "", ErrInvalidPhone
	}

	code, err := u.generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := u.sms.Send(ctx, phone, code); err != nil {
		slog.Error("sms send failed", "error", err, "phone", phone)
		return "", ErrSMSFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	if err := u.codes.Save(ctx, phone, string(hash), u.opts.CodeTTL); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	if u.opts.ExposeCode {
		return code, nil
	}
	return "", nil
}

// verifyCode はコードを検証し、成功時に保存済みコードを削除します。
func (u *authUsecase) verifyCode(ctx context.Context, phone, code string) error {
	if u.opts.BypassCode != "" && code == u.opts.BypassCode {
		return nil
	}

	hash, err := u.codes.Find(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return fmt.Errorf("failed to load code: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return ErrInvalidCode
	}

	// 使用済みコードは再利用させない
	if err := u.codes.Delete(ctx, phone); err != nil {
		slog.Warn("failed to delete used code", "error", err, "phone", phone)
	}
	return nil
}

// LoginWithPhone はコードを検証し、ユーザーを取得または作成してトークンを発行します。
func (u *authUsecase) LoginWithPhone(ctx context.Context, phone, code string) (*LoginResult, error) {
	if !ValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}
	if err := u.verifyCode(ctx, phone, code); err != nil {
		return nil, err
	}

	user, err := u.resolveUser(ctx,
		func() (*entity.User, error) { return u.users.FindByPhone(ctx, phone) },
		func() *entity.User {
			p := phone
			return &entity.User{
				Phone:  &p,
				Name:   "用户" + phone[len(phone)-4:],
				Avatar: avatarBaseURL + phone,
			}
		},
	)
	if err != nil {
		return nil, err
	}
	return u.issue(user)
}

// LoginWithWeChat はWeChat認可コードを交換し、ユーザーを取得または作成してトークンを発行します。
func (u *authUsecase) LoginWithWeChat(ctx context.Context, code string) (*LoginResult, error) {
	if u.wechat == nil || code == "" {
		return nil, ErrWeChatAuthFailed
	}

	profile, err := u.wechat.Exchange(ctx, code)
	if err != nil {
		slog.Warn("wechat exchange failed", "error", err)
		return nil, ErrWeChatAuthFailed
	}

	user, err := u.resolveUser(ctx,
		func() (*entity.User, error) { return u.users.FindByWeChatOpenID(ctx, profile.OpenID) },
		func() *entity.User {
			openID := profile.OpenID
			nu := &entity.User{
				WeChatOpenID: &openID,
				Name:         profile.Nickname,
				Avatar:       profile.HeadImgURL,
			}
			if profile.UnionID != "" {
				unionID := profile.UnionID
				nu.WeChatUnionID = &unionID
			}
			if nu.Name == "" {
				nu.Name = defaultWeChatName
			}
			if nu.Avatar == "" {
				nu.Avatar = avatarBaseURL + openID
			}
			return nu
		},
	)
	if err != nil {
		return nil, err
	}
	return u.issue(user)
}

// resolveUser は既存ユーザーを返し、存在しなければ作成します。
// 同時ログインで作成が競合した場合は作成済みのユーザーを読み直します。
func (u *authUsecase) resolveUser(ctx context.Context, find func() (*entity.User, error), build func() *entity.User) (*entity.User, error) {
	user, err := find()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user = build()
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return find()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("user created", "user_id", user.ID)
	return user, nil
}

func (u *authUsecase) issue(user *entity.User) (*LoginResult, error) {
	token, err := u.jwtGenerator.GenerateToken(user.ID, user.PhoneNumber())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}
