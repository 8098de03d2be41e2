package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zaitan_backend/internal/feature/auth/domain/entity"
	"zaitan_backend/internal/feature/auth/usecase"
)

// codeGorm はCodeStoreのDB実装です。Redisが使えない場合に使用します。
// 期限切れのコードは読み取り時に削除されます。
type codeGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.CodeStore = (*codeGorm)(nil)

// NewCodeGorm は codeGorm を生成します。
func NewCodeGorm(db *gorm.DB) *codeGorm {
	return &codeGorm{db: db, now: time.Now}
}

// Save はコードハッシュを保存します。既存のコードは上書きされます。
func (s *codeGorm) Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	now := s.now()
	rec := entity.VerificationCode{
		Phone:     phone,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
	}).Create(&rec).Error
}

// Find は有効なコードハッシュを返します。
func (s *codeGorm) Find(ctx context.Context, phone string) (string, error) {
	var rec entity.VerificationCode
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", usecase.ErrCodeNotFound
		}
		return "", err
	}
	if rec.IsExpired(s.now()) {
		_ = s.Delete(ctx, phone)
		return "", usecase.ErrCodeNotFound
	}
	return rec.CodeHash, nil
}

// Delete はコードを削除します。
func (s *codeGorm) Delete(ctx context.Context, phone string) error {
	return s.db.WithContext(ctx).Where("phone = ?", phone).Delete(&entity.VerificationCode{}).Error
}
