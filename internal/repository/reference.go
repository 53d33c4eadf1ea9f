package repository

import (
	"context"
	"errors"

	"aable-presence/internal/models"

	"go.uber.org/zap"
)

// ErrReferenceNotFound 参考数据源或记录不存在
var ErrReferenceNotFound = errors.New("reference data not found")

// ReferenceRepository 参考数据来源（标签日志 + 人员对照表）
type ReferenceRepository interface {
	// LoadTagDescriptions tag -> 描述
	LoadTagDescriptions(ctx context.Context) (map[string]string, error)
	// LoadPeople identity -> 姓名、identity -> 工作区域
	LoadPeople(ctx context.Context) (names map[string]string, areas map[string]string, err error)
}

// LoadReferenceData 组装参考数据
// 任一来源失败只记录警告并以空表继续，缺失的键在下游按默认值处理
func LoadReferenceData(ctx context.Context, repo ReferenceRepository, logger *zap.Logger) *models.ReferenceData {
	refs := &models.ReferenceData{
		DisplayNames:    map[string]string{},
		WorkAreas:       map[string]string{},
		TagDescriptions: map[string]string{},
	}
	if repo == nil {
		return refs
	}

	tags, err := repo.LoadTagDescriptions(ctx)
	if err != nil {
		logger.Warn("Failed to load BLE tag journal", zap.Error(err))
	} else if tags != nil {
		refs.TagDescriptions = tags
	}

	names, areas, err := repo.LoadPeople(ctx)
	if err != nil {
		logger.Warn("Failed to load people mapping", zap.Error(err))
	} else {
		if names != nil {
			refs.DisplayNames = names
		}
		if areas != nil {
			refs.WorkAreas = areas
		}
	}

	logger.Info("Reference data loaded",
		zap.Int("tags", len(refs.TagDescriptions)),
		zap.Int("names", len(refs.DisplayNames)),
		zap.Int("areas", len(refs.WorkAreas)),
	)
	return refs
}
