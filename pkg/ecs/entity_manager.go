// Package ecs 提供最小的实体-组件存储
//
// 点赞层（容器）持有的“存活粒子列表”就是 EntityManager：
// 生成时 CreateEntity 追加，完成或取消时 DestroyEntity 标记，
// 帧末 RemoveMarkedEntities 统一清理，保证系统遍历期间列表不被修改。
package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// EntityManager 管理所有实体和组件
// 所有方法只应在宿主的帧线程上调用，不加锁
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
	// 已标记删除的实体（去重）
	marked map[EntityID]struct{}
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		entitiesToDestroy: make([]EntityID, 0),
		marked:            make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID，ID 不会复用
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]interface{})
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
// 重复标记或标记不存在的实体都是空操作
func (em *EntityManager) DestroyEntity(id EntityID) {
	if _, exists := em.components[id]; !exists {
		return
	}
	if _, dup := em.marked[id]; dup {
		return
	}
	em.marked[id] = struct{}{}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// IsMarkedForDestroy 报告实体是否已被标记删除但尚未清理
func (em *EntityManager) IsMarkedForDestroy(id EntityID) bool {
	_, ok := em.marked[id]
	return ok
}

// Exists 报告实体是否仍在存储中（包括已标记、未清理的实体）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体，返回清理数量
func (em *EntityManager) RemoveMarkedEntities() int {
	n := len(em.entitiesToDestroy)
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
		delete(em.marked, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
	return n
}

// EntityCount 返回存储中的实体数量（包括已标记、未清理的实体）
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表，按ID升序（即创建顺序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	slices.Sort(result)
	return result
}
