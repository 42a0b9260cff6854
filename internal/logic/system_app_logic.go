package logic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/model"

	"go.uber.org/zap"
)

// 覆盖模式
const (
	OverrideModeMerge = "merge"
	OverrideModeWrite = "write"
)

// ReconcileAction 系统应用同步动作
type ReconcileAction int

const (
	ActionSkip ReconcileAction = iota
	ActionCreate
	ActionOverwrite
	ActionDelete
)

func (a ReconcileAction) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionDelete:
		return "delete"
	default:
		return "skip"
	}
}

// reconcileRule 决策表的一行，nil 与空字符串表示任意
type reconcileRule struct {
	enabled         *bool
	stored          *bool
	system          *bool
	changedManually *bool
	override        *bool
	mode            string
	action          ReconcileAction
}

func is(b bool) *bool { return &b }

// reconcileTable 按顺序匹配，首个命中的规则生效
var reconcileTable = []reconcileRule{
	{enabled: is(false), action: ActionSkip},
	{stored: is(false), action: ActionCreate},
	{system: is(false), action: ActionSkip},
	{changedManually: is(true), action: ActionSkip},
	{override: is(false), action: ActionSkip},
	{mode: OverrideModeWrite, action: ActionOverwrite},
	{mode: OverrideModeMerge, action: ActionSkip},
}

func matchBool(want *bool, got bool) bool {
	return want == nil || *want == got
}

// Decide 根据声明与已存储的应用决定同步动作
func Decide(decl config.ApplicationDeclaration, stored *model.Application) ReconcileAction {
	var system, changedManually bool
	if stored != nil {
		system = stored.System
		changedManually = stored.ChangedManually
	}
	mode := strings.ToLower(strings.TrimSpace(decl.OverrideMode))
	if mode == "" {
		mode = OverrideModeMerge
	}
	for _, rule := range reconcileTable {
		if matchBool(rule.enabled, decl.IsEnabled()) &&
			matchBool(rule.stored, stored != nil) &&
			matchBool(rule.system, system) &&
			matchBool(rule.changedManually, changedManually) &&
			matchBool(rule.override, decl.Override) &&
			(rule.mode == "" || rule.mode == mode) {
			return rule.action
		}
	}
	return ActionSkip
}

// ReconcileResult 同步结果，记录应用标题
type ReconcileResult struct {
	Created []string
	Updated []string
	Skipped []string
	Deleted []string
	Failed  []string
}

// SystemAppLogic 配置声明的系统应用同步
type SystemAppLogic struct {
	registry     *ApplicationLogic
	declarations []config.ApplicationDeclaration
}

// NewSystemAppLogic 创建系统应用同步逻辑
func NewSystemAppLogic(registry *ApplicationLogic, declarations []config.ApplicationDeclaration) *SystemAppLogic {
	return &SystemAppLogic{registry: registry, declarations: declarations}
}

// Reconcile 启动时同步：按声明创建或覆盖，删除已不再声明的系统应用
// 单个应用失败只记录日志，不中断其余应用
func (l *SystemAppLogic) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}
	declared := make(map[string]bool, len(l.declarations))

	for _, decl := range l.declarations {
		if strings.TrimSpace(decl.Title) == "" {
			logger.Warn("忽略未配置标题的系统应用", zap.String("url", decl.URL))
			continue
		}
		declared[decl.Title] = true

		stored, err := l.registry.applications.GetApplicationByTitle(ctx, decl.Title)
		if err != nil {
			return result, storageError(err)
		}

		action := Decide(decl, stored)
		switch action {
		case ActionCreate:
			err = l.create(ctx, decl)
		case ActionOverwrite:
			err = l.overwrite(ctx, decl, stored)
		}
		if err != nil {
			if errors.Is(err, ErrStorage) {
				return result, err
			}
			logger.Error("同步系统应用失败", zap.String("title", decl.Title), zap.String("action", action.String()), zap.Error(err))
			result.Failed = append(result.Failed, decl.Title)
			continue
		}

		switch action {
		case ActionCreate:
			result.Created = append(result.Created, decl.Title)
		case ActionOverwrite:
			result.Updated = append(result.Updated, decl.Title)
		default:
			result.Skipped = append(result.Skipped, decl.Title)
		}
		logger.Info("同步系统应用", zap.String("title", decl.Title), zap.String("action", action.String()))
	}

	systemApps, err := l.registry.applications.ListSystemApplications(ctx)
	if err != nil {
		return result, storageError(err)
	}
	for _, app := range systemApps {
		if declared[app.Title] {
			continue
		}
		if err := l.registry.remove(ctx, app); err != nil {
			return result, err
		}
		result.Deleted = append(result.Deleted, app.Title)
		logger.Info("同步系统应用", zap.String("title", app.Title), zap.String("action", ActionDelete.String()))
	}
	return result, nil
}

// apply 将声明写入模型
func (l *SystemAppLogic) apply(ctx context.Context, decl config.ApplicationDeclaration, m *model.Application) error {
	m.Title = decl.Title
	m.URL = decl.URL
	m.Description = decl.Description
	m.Active = decl.IsActive()
	m.Mandatory = decl.Mandatory
	m.System = true
	m.ChangedManually = false
	m.Permissions = l.registry.normalizePermissions(decl.Permissions)

	if decl.ImagePath == "" {
		return nil
	}
	data, err := os.ReadFile(decl.ImagePath)
	if err != nil {
		logger.Warn("读取系统应用插图失败", zap.String("title", decl.Title), zap.String("path", decl.ImagePath), zap.Error(err))
		return nil
	}
	img, err := l.registry.images.SaveImageBytes(ctx, model.GetInt64(m.ImageFileID), filepath.Base(decl.ImagePath), data)
	if err != nil {
		return err
	}
	m.ImageFileID = model.Int64Ptr(img.ID)
	return nil
}

func (l *SystemAppLogic) create(ctx context.Context, decl config.ApplicationDeclaration) error {
	if err := l.registry.checkCollision(ctx, decl.Title, decl.URL, 0); err != nil {
		return err
	}
	m := &model.Application{}
	if err := l.apply(ctx, decl, m); err != nil {
		return err
	}
	return storageError(l.registry.applications.CreateApplication(ctx, m))
}

func (l *SystemAppLogic) overwrite(ctx context.Context, decl config.ApplicationDeclaration, stored *model.Application) error {
	if err := l.registry.checkCollision(ctx, decl.Title, decl.URL, stored.ID); err != nil {
		return err
	}
	if err := l.apply(ctx, decl, stored); err != nil {
		return err
	}
	return storageError(l.registry.applications.UpdateApplication(ctx, stored))
}
