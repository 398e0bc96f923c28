package kv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// ttlMagic 标记带过期时间的包装值，用于原生不支持单键 TTL 的后端.
const ttlMagic = "PXTTL1:"

type ttlValue struct {
	V []byte `json:"v"`
	E int64  `json:"e,omitempty"` // unix 毫秒，0 表示不过期
}

// encodeWithTTL 在 ttl>0 时包装值，否则原样返回.
func encodeWithTTL(value []byte, ttl time.Duration) ([]byte, error) {
	if ttl <= 0 {
		return value, nil
	}

	b, err := sonic.Marshal(ttlValue{V: value, E: time.Now().Add(ttl).UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("marshal ttl value: %w", err)
	}

	return append([]byte(ttlMagic), b...), nil
}

// decodeWithTTL 识别包装值并判断是否过期，返回 (value, expired, error).
func decodeWithTTL(b []byte, now time.Time) ([]byte, bool, error) {
	if !bytes.HasPrefix(b, []byte(ttlMagic)) {
		return b, false, nil
	}

	var tv ttlValue
	if err := sonic.Unmarshal(b[len(ttlMagic):], &tv); err != nil {
		return nil, false, fmt.Errorf("unmarshal ttl value: %w", err)
	}

	if tv.E > 0 && now.UnixMilli() >= tv.E {
		return nil, true, nil
	}

	return tv.V, false, nil
}
