package service

import (
	"context"

	"campus-events/internal/model"
	"campus-events/internal/repository"
	"campus-events/pkg/logger"

	"go.uber.org/zap"
)

type PreferenceService interface {
	// Interests 尚未設定或讀取失敗時回傳預設標籤
	Interests(ctx context.Context, user *model.User) []string
	// Toggle 切換單一標籤並保存
	Toggle(ctx context.Context, user *model.User, tag string) ([]string, error)
	Set(ctx context.Context, user *model.User, tags []string) ([]string, error)
}

type PreferenceServiceImpl struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &PreferenceServiceImpl{repo: repo}
}

func defaultInterests() []string {
	return append([]string(nil), model.DefaultInterests...)
}

func (s *PreferenceServiceImpl) Interests(ctx context.Context, user *model.User) []string {
	if user == nil {
		return defaultInterests()
	}

	tags, found, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		logger.WithComponent("service").Warn("load interests failed, using defaults",
			zap.String("attendee_id", user.ID),
			zap.Error(err),
		)
		return defaultInterests()
	}
	if !found {
		return defaultInterests()
	}
	return tags
}

func (s *PreferenceServiceImpl) Toggle(ctx context.Context, user *model.User, tag string) ([]string, error) {
	if err := requireAuth(user); err != nil {
		return nil, err
	}
	// 寫入前的讀取失敗不可退回預設值，否則會覆蓋已保存的興趣
	current, found, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		current = defaultInterests()
	}
	tags := model.ToggleTag(current, tag)
	if err := s.repo.Save(ctx, user.ID, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *PreferenceServiceImpl) Set(ctx context.Context, user *model.User, tags []string) ([]string, error) {
	if err := requireAuth(user); err != nil {
		return nil, err
	}
	tags = model.NormalizeTags(tags)
	if err := s.repo.Save(ctx, user.ID, tags); err != nil {
		return nil, err
	}
	return tags, nil
}
