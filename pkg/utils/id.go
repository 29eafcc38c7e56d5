package utils

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID 生成 24 位十六进制 ID（与 MongoDB ObjectID 同形，各存储后端通用）
func NewID() string { return primitive.NewObjectID().Hex() }

// ValidID 判断 id 是否为合法的 ObjectID 十六进制串
func ValidID(id string) bool { return primitive.IsValidObjectID(id) }
