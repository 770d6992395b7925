package constants

import "time"

const (
	// JobVectorKeyPrefix 岗位向量缓存键前缀
	JobVectorKeyPrefix = "match:jobvec:"
	// JobVectorTTL 岗位向量缓存过期时间
	JobVectorTTL = 24 * time.Hour
)
