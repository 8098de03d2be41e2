package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"zaitan_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc             func(ctx context.Context, user *entity.User) error
	FindByIDFunc           func(ctx context.Context, id string) (*entity.User, error)
	FindByPhoneFunc        func(ctx context.Context, phone string) (*entity.User, error)
	FindByWeChatOpenIDFunc func(ctx context.Context, openID string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = "new-user-id"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByWeChatOpenID(ctx context.Context, openID string) (*entity.User, error) {
	if m.FindByWeChatOpenIDFunc != nil {
		return m.FindByWeChatOpenIDFunc(ctx, openID)
	}
	return nil, ErrUserNotFound
}

// memoryCodeStore is an in-memory CodeStore that ignores TTL.
type memoryCodeStore struct {
	hashes  map[string]string
	ttls    map[string]time.Duration
	deleted []string
	saveErr error
}

func newMemoryCodeStore() *memoryCodeStore {
	return &memoryCodeStore{hashes: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *memoryCodeStore) Save(_ context.Context, phone, codeHash string, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.hashes[phone] = codeHash
	s.ttls[phone] = ttl
	return nil
}

func (s *memoryCodeStore) Find(_ context.Context, phone string) (string, error) {
	h, ok := s.hashes[phone]
	if !ok {
		return "", ErrCodeNotFound
	}
	return h, nil
}

func (s *memoryCodeStore) Delete(_ context.Context, phone string) error {
	delete(s.hashes, phone)
	s.deleted = append(s.deleted, phone)
	return nil
}

type mockSMSSender struct {
	SendFunc func(ctx context.Context, phone, code string) error
}

func (m *mockSMSSender) Send(ctx context.Context, phone, code string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone, code)
	}
	return nil
}

type mockWeChatClient struct {
	ExchangeFunc func(ctx context.Context, code string) (*entity.WeChatProfile, error)
}

func (m *mockWeChatClient) Exchange(ctx context.Context, code string) (*entity.WeChatProfile, error) {
	return m.ExchangeFunc(ctx, code)
}

// mockJWTGenerator is a mock implementation of JWTGenerator.
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID, phone string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID, phone string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, phone)
	}
	return "mock-jwt-token", nil
}

const testPhone = "13812345678"

func newTestUsecase(users *mockUserRepository, codes *memoryCodeStore, opts Options) *authUsecase {
	uc := NewAuthUsecase(users, codes, &mockSMSSender{}, nil, &mockJWTGenerator{}, opts)
	uc.generateCode = func() (string, error) { return "123456", nil }
	return uc
}

func hashOf(t *testing.T, code string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestValidPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phone string
		want  bool
	}{
		{"13812345678", true},
		{"19912345678", true},
		{"12812345678", false},
		{"1381234567", false},
		{"138123456789", false},
		{"+8613812345678", false},
		{"abcdefghijk", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhone(tt.phone), tt.phone)
	}
}

func TestRandomCode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}

func TestAuthUsecase_SendCode(t *testing.T) {
	t.Run("stores hashed code and exposes it in development", func(t *testing.T) {
		codes := newMemoryCodeStore()
		uc := newTestUsecase(&mockUserRepository{}, codes, Options{ExposeCode: true})

		code, err := uc.SendCode(context.Background(), testPhone)

		require.NoError(t, err)
		assert.Equal(t, "123456", code)
		require.Contains(t, codes.hashes, testPhone)
		assert.NotEqual(t, "123456", codes.hashes[testPhone], "code must not be stored in plain text")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(codes.hashes[testPhone]), []byte("123456")))
		assert.Equal(t, 5*time.Minute, codes.ttls[testPhone])
	})

	t.Run("hides code outside development", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{})

		code, err := uc.SendCode(context.Background(), testPhone)

		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("invalid phone", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{})

		_, err := uc.SendCode(context.Background(), "123")

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("sms failure does not store code", func(t *testing.T) {
		codes := newMemoryCodeStore()
		uc := newTestUsecase(&mockUserRepository{}, codes, Options{})
		uc.sms = &mockSMSSender{SendFunc: func(context.Context, string, string) error {
			return errors.New("gateway down")
		}}

		_, err := uc.SendCode(context.Background(), testPhone)

		assert.ErrorIs(t, err, ErrSMSFailed)
		assert.Empty(t, codes.hashes)
	})

	t.Run("store failure", func(t *testing.T) {
		codes := newMemoryCodeStore()
		codes.saveErr = errors.New("redis down")
		uc := newTestUsecase(&mockUserRepository{}, codes, Options{})

		_, err := uc.SendCode(context.Background(), testPhone)

		assert.Error(t, err)
	})
}

func TestAuthUsecase_LoginWithPhone(t *testing.T) {
	t.Run("bypass code registers a new user", func(t *testing.T) {
		var created *entity.User
		users := &mockUserRepository{CreateFunc: func(_ context.Context, u *entity.User) error {
			u.ID = "u-1"
			created = u
			return nil
		}}
		uc := newTestUsecase(users, newMemoryCodeStore(), Options{BypassCode: "000000"})

		res, err := uc.LoginWithPhone(context.Background(), testPhone, "000000")

		require.NoError(t, err)
		assert.Equal(t, "mock-jwt-token", res.Token)
		require.NotNil(t, created)
		assert.Equal(t, testPhone, created.PhoneNumber())
		assert.Equal(t, "用户5678", created.Name)
		assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed="+testPhone, created.Avatar)
		assert.Same(t, created, res.User)
	})

	t.Run("bypass disabled when empty", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{BypassCode: ""})

		_, err := uc.LoginWithPhone(context.Background(), testPhone, "000000")

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("valid stored code logs in existing user and is consumed", func(t *testing.T) {
		codes := newMemoryCodeStore()
		codes.hashes[testPhone] = hashOf(t, "246810")
		existing := &entity.User{ID: "u-existing", Name: "old"}
		users := &mockUserRepository{
			FindByPhoneFunc: func(context.Context, string) (*entity.User, error) { return existing, nil },
			CreateFunc: func(context.Context, *entity.User) error {
				t.Fatal("Create must not be called for an existing user")
				return nil
			},
		}
		var gotSub string
		uc := newTestUsecase(users, codes, Options{})
		uc.jwtGenerator = &mockJWTGenerator{GenerateTokenFunc: func(userID, _ string) (string, error) {
			gotSub = userID
			return "tok", nil
		}}

		res, err := uc.LoginWithPhone(context.Background(), testPhone, "246810")

		require.NoError(t, err)
		assert.Equal(t, "tok", res.Token)
		assert.Equal(t, "u-existing", gotSub)
		assert.Equal(t, []string{testPhone}, codes.deleted)

		// 同じコードは二度使えない
		_, err = uc.LoginWithPhone(context.Background(), testPhone, "246810")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("wrong code", func(t *testing.T) {
		codes := newMemoryCodeStore()
		codes.hashes[testPhone] = hashOf(t, "246810")
		uc := newTestUsecase(&mockUserRepository{}, codes, Options{BypassCode: "000000"})

		_, err := uc.LoginWithPhone(context.Background(), testPhone, "111111")

		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.Contains(t, codes.hashes, testPhone, "a failed attempt keeps the code")
	})

	t.Run("no code issued", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{})

		_, err := uc.LoginWithPhone(context.Background(), testPhone, "123456")

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("malformed code", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{BypassCode: "0000"})

		_, err := uc.LoginWithPhone(context.Background(), testPhone, "0000")

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("invalid phone", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{BypassCode: "000000"})

		_, err := uc.LoginWithPhone(context.Background(), "23812345678", "000000")

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("concurrent registration re-reads the winner", func(t *testing.T) {
		winner := &entity.User{ID: "winner"}
		calls := 0
		users := &mockUserRepository{
			FindByPhoneFunc: func(context.Context, string) (*entity.User, error) {
				calls++
				if calls == 1 {
					return nil, ErrUserNotFound
				}
				return winner, nil
			},
			CreateFunc: func(context.Context, *entity.User) error { return ErrUserAlreadyExists },
		}
		uc := newTestUsecase(users, newMemoryCodeStore(), Options{BypassCode: "000000"})

		res, err := uc.LoginWithPhone(context.Background(), testPhone, "000000")

		require.NoError(t, err)
		assert.Same(t, winner, res.User)
	})

	t.Run("token failure", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{BypassCode: "000000"})
		uc.jwtGenerator = &mockJWTGenerator{GenerateTokenFunc: func(string, string) (string, error) {
			return "", errors.New("no secret")
		}}

		_, err := uc.LoginWithPhone(context.Background(), testPhone, "000000")

		assert.Error(t, err)
	})
}

func TestAuthUsecase_LoginWithWeChat(t *testing.T) {
	t.Run("new user defaults", func(t *testing.T) {
		var created *entity.User
		users := &mockUserRepository{CreateFunc: func(_ context.Context, u *entity.User) error {
			u.ID = "wx-1"
			created = u
			return nil
		}}
		uc := newTestUsecase(users, newMemoryCodeStore(), Options{})
		uc.wechat = &mockWeChatClient{ExchangeFunc: func(_ context.Context, code string) (*entity.WeChatProfile, error) {
			assert.Equal(t, "wx-code", code)
			return &entity.WeChatProfile{OpenID: "openid-1", UnionID: "union-1"}, nil
		}}

		res, err := uc.LoginWithWeChat(context.Background(), "wx-code")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "微信用户", created.Name)
		assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=openid-1", created.Avatar)
		assert.Equal(t, "openid-1", *created.WeChatOpenID)
		assert.Equal(t, "union-1", *created.WeChatUnionID)
		assert.Nil(t, created.Phone)
		assert.Equal(t, "wx-1", res.User.ID)
	})

	t.Run("nickname and avatar from profile", func(t *testing.T) {
		var created *entity.User
		users := &mockUserRepository{CreateFunc: func(_ context.Context, u *entity.User) error {
			created = u
			return nil
		}}
		uc := newTestUsecase(users, newMemoryCodeStore(), Options{})
		uc.wechat = &mockWeChatClient{ExchangeFunc: func(context.Context, string) (*entity.WeChatProfile, error) {
			return &entity.WeChatProfile{OpenID: "o", Nickname: "小明", HeadImgURL: "https://img/x.png"}, nil
		}}

		_, err := uc.LoginWithWeChat(context.Background(), "c")

		require.NoError(t, err)
		assert.Equal(t, "小明", created.Name)
		assert.Equal(t, "https://img/x.png", created.Avatar)
		assert.Nil(t, created.WeChatUnionID)
	})

	t.Run("exchange failure", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{})
		uc.wechat = &mockWeChatClient{ExchangeFunc: func(context.Context, string) (*entity.WeChatProfile, error) {
			return nil, errors.New("errcode 40029")
		}}

		_, err := uc.LoginWithWeChat(context.Background(), "bad")

		assert.ErrorIs(t, err, ErrWeChatAuthFailed)
	})

	t.Run("not configured", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, newMemoryCodeStore(), Options{})

		_, err := uc.LoginWithWeChat(context.Background(), "c")

		assert.ErrorIs(t, err, ErrWeChatAuthFailed)
	})
}
