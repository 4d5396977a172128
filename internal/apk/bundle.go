package apk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInputNotFound 输入 APK 不存在或不是普通文件
var ErrInputNotFound = errors.New("input apk not found")

// Bundle 待修补的 APK 及其派生工作路径
// 所有产物都和输入文件放在同一目录，构造后不再变化
type Bundle struct {
	Path          string // 输入 APK 绝对路径
	BaseName      string // 去掉扩展名的文件名
	Dir           string // 输入所在目录
	ExtractionDir string // <dir>/<base>/
	PatchedAPK    string // <dir>/<base>_patched.apk
	AlignedAPK    string // <dir>/<base>_patched_zipaligned.apk
}

// NewBundle 校验输入并派生工作路径
func NewBundle(path string) (*Bundle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, abs)
	}

	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	dir := filepath.Dir(abs)

	return &Bundle{
		Path:          abs,
		BaseName:      base,
		Dir:           dir,
		ExtractionDir: filepath.Join(dir, base),
		PatchedAPK:    filepath.Join(dir, base+"_patched.apk"),
		AlignedAPK:    filepath.Join(dir, base+"_patched_zipaligned.apk"),
	}, nil
}

// ManifestPath 解包目录里 AndroidManifest.xml 的路径
func (b *Bundle) ManifestPath() string {
	return filepath.Join(b.ExtractionDir, "AndroidManifest.xml")
}

// SizeMB 输入 APK 大小（MB）
func (b *Bundle) SizeMB() float64 {
	info, err := os.Stat(b.Path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}
