package service

// Viewer 读路径的访问者身份：要么是已登录用户，要么显式匿名。
// 不用裸的 userID=0 表达匿名，避免和真实 ID 混在一起。
type Viewer struct {
	ID        uint64
	Anonymous bool
}

// AnonymousViewer 匿名访问者（可选鉴权读接口降级用）。
var AnonymousViewer = Viewer{Anonymous: true}

// AuthedViewer 已登录访问者。
func AuthedViewer(userID uint64) Viewer {
	return Viewer{ID: userID}
}
