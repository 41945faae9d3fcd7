//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// mobile/data/likefx.yaml 是根目录 data/likefx.yaml 的副本，修改配置后需同步：
//
//	cp data/likefx.yaml mobile/data/
package mobile

import "embed"

//go:embed data/likefx.yaml
var dataFS embed.FS
