package router

import (
	"sort"

	"storefront/internal/transport/http/handler"
)

// Module 业务模块：在公共/管理分组上挂载自己的路由
type Module interface{ Mount(handler.Routes) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct{ mods []Module }

func (r *Registry) Register(mods ...Module) { r.mods = append(r.mods, mods...) }

// MountAll 按优先级挂载所有已注册模块
func (r *Registry) MountAll(routes handler.Routes) {
	mods := append([]Module(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(routes)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
