package asset

import (
	"io"
	"sync"

	"github.com/db47h/glint"
	"github.com/db47h/ofs"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// A Manager manages asynchronous (pre)loading and caching of assets.
//
// Methods that create or release GPU objects (Texture, TextDrawer, Program,
// Discard, Close and a flushing Preload) must be called from the thread
// owning the manager's context. Other goroutines use LoadTexture, which
// marshals the work through the context's dispatcher.
//
type Manager struct {
	fs      ofs.FileSystem
	ctx     *glint.Context
	cfg     config
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

// NewManager returns a new asset Manager loading assets from fs. GPU objects
// are created on ctx.
//
func NewManager(fs ofs.FileSystem, ctx *glint.Context, options ...Option) *Manager {
	m := &Manager{
		fs:      fs,
		ctx:     ctx,
		cfg:     newConfig(options),
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

var loaders = [typeLast]func(r io.Reader, name string) (interface{}, error){
	TypeFont:    loadFont,
	TypeTexture: loadTexture,
	TypeFile:    loadFile,
	TypeShader:  loadFile,
}

func (m *Manager) lookup(a Asset) (data interface{}, state loadState) {
	if data, ok := m.assets[a]; ok {
		return data, stateLoaded
	}
	if _, ok := m.pending[a]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

// load loads an asset from disk.
//
func (m *Manager) load(a Asset) (interface{}, error) {
	name := m.cfg.assetPath(a)
	r, err := m.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return loaders[a.Type](r, name)
}

// get returns an asset from cache or synchronously loads it from disk if not
// in the cache. If this asset is being loaded from another goroutine, get will
// wait for the asset to be loaded and return the cached version.
//
// m.m must be held.
//
func (m *Manager) get(a Asset) (data interface{}, err error) {
	for {
		data, s := m.lookup(a)
		switch s {
		case stateMissing:
			m.pending[a] = struct{}{}
			m.m.Unlock()
			data, err := m.load(a)
			m.m.Lock()
			delete(m.pending, a)
			m.cond.Broadcast()
			if err != nil {
				return nil, errors.Wrapf(err, "load %s", a)
			}
			m.assets[a] = data
			return data, nil
		case stateLoaded:
			return data, nil
		}
		m.cond.Wait()
	}
}

// Loaded returns true if the asset is in the cache.
//
func (m *Manager) Loaded(a Asset) bool {
	m.m.Lock()
	defer m.m.Unlock()
	_, s := m.lookup(a)
	return s == stateLoaded
}

// Discard removes the given asset from the cache and releases it.
//
func (m *Manager) Discard(a Asset) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrapf(err, "discard %s", a)
		}
	}()
	m.m.Lock()
	for {
		if aa, ok := m.assets[a]; ok {
			delete(m.assets, a)
			m.m.Unlock()
			if cl, ok := aa.(closer); ok {
				return cl.Close()
			}
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			m.m.Unlock()
			return ErrMissingAsset
		}
		m.cond.Wait()
	}
}

// Close discards all assets.
//
func (m *Manager) Close() error {
	m.m.Lock()
	defer m.m.Unlock()
	var errs errorList
	for k, a := range m.assets {
		if cl, ok := a.(closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, errors.Wrapf(err, "close %s", k))
			}
		}
		delete(m.assets, k)
	}
	if errs != nil {
		return errs
	}
	return nil
}

// Preload bulk preloads assets. If the flush argument is true, cached assets
// not present in the asset list will be removed from the cache and released,
// in which case Preload must be called from the context thread. It returns a
// channel to read preload results from as well as the number of items that will
// actually be preloaded. This item count is informational only and callers
// should rely on the rc channel being closed to ensure that the operation is
// complete.
//
// Decoded textures are uploaded on the context's thread the next time its
// dispatcher is drained.
//
// Calling Preload concurrently may result in unexpected side effects, like
// flushing assets that should not be. An alternative is to build the assets
// slice concurrently and have a single goroutine call Preload and Wait.
//
func (m *Manager) Preload(assets []Asset, flush bool) (rc <-chan Result, n int) {
	m.m.Lock()
	var evicted map[Asset]closer
	if flush {
		amap := map[Asset]struct{}{}
		for i := range assets {
			amap[assets[i]] = struct{}{}
		}
		for k, a := range m.assets {
			if _, ok := amap[k]; !ok {
				delete(m.assets, k)
				if cl, ok := a.(closer); ok {
					if evicted == nil {
						evicted = make(map[Asset]closer)
					}
					evicted[k] = cl
				}
			}
		}
	}

	// mark assets as pending and ignore loaded/pending assets
	todo := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.Type < 0 || a.Type >= typeLast {
			m.m.Unlock()
			panic(errors.Errorf("invalid asset type %d", a.Type))
		}
		if _, state := m.lookup(a); state != stateMissing {
			continue
		}
		m.pending[a] = struct{}{}
		todo = append(todo, a)
	}
	m.m.Unlock()

	for k, cl := range evicted {
		if err := cl.Close(); err != nil {
			m.ctx.Logger().Warn("asset eviction failed", "asset", k.String(), "error", err)
		}
	}

	c := make(chan Result, len(todo))
	go m.preload(todo, c)
	return c, len(todo)
}

func (m *Manager) preload(assets []Asset, rc chan Result) {
	var g errgroup.Group
	g.SetLimit(m.cfg.workers)
	for _, a := range assets {
		g.Go(func() error {
			data, err := m.load(a)
			m.m.Lock()
			if err != nil {
				err = errors.Wrapf(err, "preload %s", a)
			} else {
				m.assets[a] = data
			}
			delete(m.pending, a)
			m.cond.Broadcast()
			m.m.Unlock()
			if err == nil && a.Type == TypeTexture {
				ierr := m.ctx.Dispatcher().Invoke(func() {
					if _, err := m.upload(a); err != nil {
						m.ctx.Logger().Warn("texture upload failed", "asset", a.String(), "error", err)
					}
				})
				if ierr != nil {
					m.ctx.Logger().Warn("texture upload not scheduled", "asset", a.String(), "error", ierr)
				}
			}
			rc <- Result{Asset: a, Err: err}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		m.ctx.Logger().Warn("asset preload failed", "error", err)
	}
	close(rc)
}

// Wait waits for completion of a previous Preload and returns any load errors.
//
func Wait(rc <-chan Result) error {
	var errs errorList
	for r := range rc {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}
