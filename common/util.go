package common

import (
	"strconv"
	"sync/atomic"
	"time"
)

const (
	atFalse int32 = iota
	atTrue
)

type AtomicBool struct {
	val int32
}

func (a *AtomicBool) Get() bool {
	i := atomic.LoadInt32(&a.val)
	return i == atTrue
}

func (a *AtomicBool) Set(val bool) {
	atomic.StoreInt32(&a.val, a.toInt(val))
}

func (a *AtomicBool) toInt(val bool) int32 {
	var i int32
	if val {
		i = atTrue
	} else {
		i = atFalse
	}
	return i
}

func (a *AtomicBool) CompareAndSet(expected bool, val bool) bool {
	return atomic.CompareAndSwapInt32(&a.val, a.toInt(expected), a.toInt(val))
}

// ValueToString gives the canonical string form a dimension cell stores.
func ValueToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format("2006-01-02 15:04:05")
	case []byte:
		return string(v)
	default:
		return ""
	}
}
