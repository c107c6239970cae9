package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeIfAbsent(t *testing.T) {
	c := NewCache[string, []byte](time.Minute)
	defer c.Close()

	var calls int32
	load := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("index"), nil
	}

	v, err := c.ComputeIfAbsent("dxvk", load)
	require.NoError(t, err)
	require.Equal(t, "index", string(*v))

	v, err = c.ComputeIfAbsent("dxvk", load)
	require.NoError(t, err)
	require.Equal(t, "index", string(*v))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	c.EvictAll()
	_, err = c.ComputeIfAbsent("dxvk", load)
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestComputeIfAbsentErrorNotCached(t *testing.T) {
	c := NewCache[string, []byte](time.Minute)
	defer c.Close()

	_, err := c.ComputeIfAbsent("dxvk", func() ([]byte, error) {
		return nil, errors.New("offline")
	})
	require.Error(t, err)

	_, ok := c.Get("dxvk")
	require.False(t, ok)
}

func TestDisabledCacheAlwaysLoads(t *testing.T) {
	c := NewCache[string, int](0)
	defer c.Close()

	var calls int32
	for i := 0; i < 3; i++ {
		v, err := c.ComputeIfAbsent("k", func() (int, error) {
			return int(atomic.AddInt32(&calls, 1)), nil
		})
		require.NoError(t, err)
		require.Equal(t, i+1, *v)
	}
}

func TestConcurrentLoadsCollapse(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	defer c.Close()

	var calls int32
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.ComputeIfAbsent("k", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return 1, nil
			})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 1, v)
}
