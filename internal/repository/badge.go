package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"HabitPulse/internal/model"
	"HabitPulse/storage/database"
)

func ListBadges(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	err := database.DB().WithContext(ctx).Order("id").Find(&badges).Error
	return badges, err
}

func GetBadgeByCode(ctx context.Context, code string) (*model.Badge, error) {
	var badge model.Badge
	err := database.DB().WithContext(ctx).
		Where("code = ?", code).
		First(&badge).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

// CreateUserBadge 幂等授予：命中 (badge_id, user_id, habit_id) 唯一索引时静默跳过。
// 返回是否真正新增。
func CreateUserBadge(ctx context.Context, award *model.UserBadge) (bool, error) {
	result := database.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "badge_id"}, {Name: "user_id"}, {Name: "habit_id"}},
			DoNothing: true,
		}).
		Create(award)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func ListUserBadges(ctx context.Context, userID int64) ([]model.UserBadge, error) {
	var awards []model.UserBadge
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&awards).Error
	return awards, err
}

// EarnedBadgeIDSet 已获得的徽章 ID 集合，授予幂等性检查用。
// habitID 区分习惯绑定与全局徽章的授予范围。
func EarnedBadgeIDSet(ctx context.Context, userID, habitID int64) (map[int64]bool, error) {
	var awards []model.UserBadge
	err := database.DB().WithContext(ctx).
		Select("badge_id").
		Where("user_id = ? AND habit_id IN (0, ?)", userID, habitID).
		Find(&awards).Error
	if err != nil {
		return nil, err
	}

	set := make(map[int64]bool, len(awards))
	for _, a := range awards {
		set[a.BadgeID] = true
	}
	return set, nil
}

// DrainNewBadges 取出并清除用户的未读徽章，保证恰好消费一次
func DrainNewBadges(ctx context.Context, userID int64) ([]model.UserBadge, error) {
	var awards []model.UserBadge

	err := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND is_new = true", userID).
			Order("earned_at").
			Find(&awards).Error; err != nil {
			return err
		}

		if len(awards) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(awards))
		for _, a := range awards {
			ids = append(ids, a.ID)
		}

		return tx.Model(&model.UserBadge{}).
			Where("id IN ?", ids).
			Update("is_new", false).Error
	})

	return awards, err
}
