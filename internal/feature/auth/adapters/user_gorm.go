// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"zaitan_backend/internal/feature/auth/domain/entity"
	"zaitan_backend/internal/feature/auth/usecase"
	"zaitan_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 電話番号またはopenidが重複する場合、usecase.ErrUserAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByPhone は電話番号でユーザーを取得します。
func (r *userGorm) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

// FindByWeChatOpenID はWeChat openidでユーザーを取得します。
func (r *userGorm) FindByWeChatOpenID(ctx context.Context, openID string) (*entity.User, error) {
	return r.first(ctx, "wechat_open_id = ?", openID)
}

// UpdateProfile は指定されたフィールドのみ更新し、更新後のユーザーを返します。
func (r *userGorm) UpdateProfile(ctx context.Context, id string, name, avatar *string) (*entity.User, error) {
	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, usecase.ErrUserNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// first は条件に一致する最初のユーザーを返します。
// 存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
