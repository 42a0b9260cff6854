package logic

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"
)

const base64Marker = ";base64,"

// ImageLogic 插图逻辑
type ImageLogic struct {
	images repository.ImageRepository
}

// NewImageLogic 创建插图逻辑
func NewImageLogic(images repository.ImageRepository) *ImageLogic {
	return &ImageLogic{images: images}
}

// DecodeImageBody 解析 base64 内容，兼容 data URL 前缀
func DecodeImageBody(body string) ([]byte, error) {
	body = utils.Trim(body)
	if i := strings.Index(body, base64Marker); i >= 0 {
		body = body[i+len(base64Marker):]
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, invalidArgument("image body is not valid base64: %v", err)
	}
	return data, nil
}

// SaveImage 保存 base64 插图，id 为 0 时新建
func (l *ImageLogic) SaveImage(ctx context.Context, id int64, fileName, body string) (*model.ApplicationImage, error) {
	data, err := DecodeImageBody(body)
	if err != nil {
		return nil, err
	}
	return l.SaveImageBytes(ctx, id, fileName, data)
}

// SaveImageBytes 保存插图内容，id 为 0 时新建
func (l *ImageLogic) SaveImageBytes(ctx context.Context, id int64, fileName string, data []byte) (*model.ApplicationImage, error) {
	img := &model.ApplicationImage{
		ID:       id,
		FileName: fileName,
		FileBody: data,
	}
	if err := l.images.SaveImage(ctx, img); err != nil {
		return nil, storageError(err)
	}
	return img, nil
}

// GetImage 获取插图，不存在时返回 nil
func (l *ImageLogic) GetImage(ctx context.Context, id int64) (*model.ApplicationImage, error) {
	img, err := l.images.GetImage(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return img, nil
}

// GetImageInfo 获取插图元数据，不存在时返回 nil
func (l *ImageLogic) GetImageInfo(ctx context.Context, id int64) (*model.ApplicationImage, error) {
	img, err := l.images.GetImageInfo(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return img, nil
}

// DeleteImage 删除插图
func (l *ImageLogic) DeleteImage(ctx context.Context, id int64) error {
	return storageError(l.images.DeleteImage(ctx, id))
}
