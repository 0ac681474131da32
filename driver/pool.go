package driver

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"time"

	"goflare.io/ignite"
)

var bufferType = reflect.TypeOf(&bytes.Buffer{})

// BufferPool hands out request body buffers; callers must invoke release.
type BufferPool interface {
	Acquire(ctx context.Context) (buf *bytes.Buffer, release func(), err error)
}

type ignitePool struct {
	manager ignite.Manager
}

func NewBufferPool(manager ignite.Manager) (BufferPool, error) {
	err := manager.RegisterPool(bufferType, ignite.Config[any]{
		InitialSize: 8,
		MaxSize:     128,
		MaxIdleTime: 10 * time.Minute,
		Factory: func() (any, error) {
			return new(bytes.Buffer), nil
		},
		Reset: func(obj any) error {
			obj.(*bytes.Buffer).Reset()
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register buffer pool: %w", err)
	}

	return &ignitePool{manager: manager}, nil
}

func (p *ignitePool) Acquire(ctx context.Context) (*bytes.Buffer, func(), error) {
	pool, err := p.manager.GetPool(bufferType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pool: %w", err)
	}

	objWrapper, err := pool.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get buffer from pool: %w", err)
	}

	buf := objWrapper.Object.(*bytes.Buffer)
	buf.Reset()
	release := func() {
		pool.Put(objWrapper)
	}

	return buf, release, nil
}
