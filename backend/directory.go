/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2024 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package backend

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/n4rclss/classfabric/duration"
	"github.com/n4rclss/classfabric/envelope"
	"github.com/n4rclss/classfabric/health"
	liblog "github.com/n4rclss/classfabric/logger"
	libsem "github.com/n4rclss/classfabric/semaphore"
)

// fileEntry is one element of the servers.json backend list.
type fileEntry struct {
	Host string `json:"host" validate:"required"`
	Port int    `json:"port" validate:"required,min=1,max=65535"`
}

var validate = validator.New()

// Directory holds the LB's current backend list, their health, their
// live connections, and the round-robin cursor. All mutation happens
// under a single exclusive lock to serialize reconfigurations.
type Directory struct {
	mu sync.RWMutex

	list    []Backend
	healthy map[string]bool
	conns   map[string]*Conn

	cursor []string
	cursPos int

	clients          ClientWriter
	framer           envelope.Framer
	healthTimeout    duration.Duration
	probeConcurrency int64

	log liblog.FuncLog
}

// NewDirectory builds an empty Directory. Reload must be called at least
// once (typically at startup) before Select will return a backend.
func NewDirectory(clients ClientWriter, framer envelope.Framer, healthTimeout duration.Duration, probeConcurrency int64, log liblog.FuncLog) *Directory {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}
	return &Directory{
		healthy:          make(map[string]bool),
		conns:            make(map[string]*Conn),
		clients:          clients,
		framer:           framer,
		healthTimeout:    healthTimeout,
		probeConcurrency: probeConcurrency,
		log:              log,
	}
}

func parseFile(path string) ([]Backend, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, ErrConfigParse.Error(err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var entries []fileEntry
	if err = json.Unmarshal(raw, &entries); err != nil {
		return nil, ErrConfigParse.Error(err)
	}

	seen := make(map[string]bool, len(entries))
	out := make([]Backend, 0, len(entries))
	for _, e := range entries {
		if err = validate.Struct(e); err != nil {
			return nil, ErrConfigParse.Error(err)
		}
		b := Backend{Host: e.Host, Port: e.Port}
		k := b.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		b.Index = len(out)
		out = append(out, b)
	}
	return out, nil
}

// Reload parses path, probes every entry, diffs against the current
// state, and rebuilds the round-robin cursor. Parse failures leave the
// prior backend list untouched.
func (d *Directory) Reload(ctx context.Context, path string) error {
	list, err := parseFile(path)
	if err != nil {
		d.log().Entry(liblog.WarnLevel, "backend list reload failed, retaining prior configuration").
			FieldAdd("path", path).ErrorAdd(true, err).Log()
		return err
	}

	newHealthy := d.probeAll(ctx, list)

	d.mu.Lock()
	defer d.mu.Unlock()

	var merr *multierror.Error

	stillValid := make(map[string]bool, len(list))
	for _, b := range list {
		stillValid[b.key()] = true
	}

	for key, conn := range d.conns {
		if !stillValid[key] || !newHealthy[key] {
			if err = conn.Close(); err != nil {
				merr = multierror.Append(merr, err)
			}
			delete(d.conns, key)
		}
	}

	connectTimeout := d.healthTimeout.Time() * 2
	for _, b := range list {
		key := b.key()
		if !newHealthy[key] {
			continue
		}
		if _, ok := d.conns[key]; ok {
			continue
		}

		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		conn, derr := dial(dialCtx, b, d.framer, d.clients, d.log, d.onConnError)
		cancel()
		if derr != nil {
			d.log().Entry(liblog.WarnLevel, "backend connect failed, demoting for this cycle").
				FieldAdd("backend", b.String()).ErrorAdd(true, derr).Log()
			newHealthy[key] = false
			continue
		}
		d.conns[key] = conn
	}

	d.list = list
	d.healthy = newHealthy
	d.rebuildCursorLocked()

	if merr.ErrorOrNil() != nil {
		return ErrDirectoryClose.Error(merr)
	}
	return nil
}

func (d *Directory) probeAll(ctx context.Context, list []Backend) map[string]bool {
	result := make(map[string]bool, len(list))
	if len(list) == 0 {
		return result
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = libsem.New(ctx, d.probeConcurrency)
	)
	defer sem.DeferMain()

	for _, b := range list {
		b := b
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem.NewWorker() != nil {
				return
			}
			defer sem.DeferWorker()

			ok := health.Probe(ctx, b.Host, b.Port, d.healthTimeout.Time())
			mu.Lock()
			result[b.key()] = ok
			mu.Unlock()
		}()
	}
	wg.Wait()
	return result
}

// onConnError is invoked by a Conn's reader task on framing/IO failure.
// It schedules closure of the backend: remove it from the map and
// cursor under the directory lock. The next reload cycle may re-probe
// and reconnect it.
func (d *Directory) onConnError(b Backend, _ error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := b.key()
	if conn, ok := d.conns[key]; ok {
		delete(d.conns, key)
		d.healthy[key] = false
		go conn.Close()
	}
	d.rebuildCursorLocked()
}

// rebuildCursorLocked recomputes the cyclic cursor from the
// healthy-and-connected set, sorted by index ascending. Callers must
// hold d.mu.
func (d *Directory) rebuildCursorLocked() {
	keys := make([]string, 0, len(d.conns))
	indexOf := make(map[string]int, len(d.list))
	for _, b := range d.list {
		indexOf[b.key()] = b.Index
	}

	for key := range d.conns {
		if d.healthy[key] {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return indexOf[keys[i]] < indexOf[keys[j]] })

	d.cursor = keys
	d.cursPos = 0
}

// Select walks the cursor at most len(cursor) times and returns the
// first backend that is still healthy and connected. ok=false (NoBackend)
// when the cursor is empty or nothing live remains.
func (d *Directory) Select() (conn *Conn, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.cursor)
	if n == 0 {
		return nil, false
	}

	for i := 0; i < n; i++ {
		idx := (d.cursPos + i) % n
		key := d.cursor[idx]
		if c, found := d.conns[key]; found && d.healthy[key] {
			d.cursPos = (idx + 1) % n
			return c, true
		}
	}
	return nil, false
}

// WriteClientChunk selects the next healthy backend and writes the
// client's chunk to it, serialized under the backend's own writer mutex.
func (d *Directory) WriteClientChunk(clientID string, payload []byte) error {
	conn, ok := d.Select()
	if !ok {
		return ErrNoBackend.Error()
	}
	if err := conn.Write(clientID, payload); err != nil {
		d.onConnError(conn.Backend, err)
		return err
	}
	return nil
}

// Close tears down every live backend connection, used on LB shutdown.
func (d *Directory) Close() error {
	d.mu.Lock()
	conns := make([]*Conn, 0, len(d.conns))
	for _, c := range d.conns {
		conns = append(conns, c)
	}
	d.conns = make(map[string]*Conn)
	d.cursor = nil
	d.mu.Unlock()

	var merr *multierror.Error
	for _, c := range conns {
		if err := c.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

// Snapshot returns the current backend list and health map, for
// diagnostics and tests.
func (d *Directory) Snapshot() (list []Backend, healthy map[string]bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list = make([]Backend, len(d.list))
	copy(list, d.list)

	healthy = make(map[string]bool, len(d.healthy))
	for k, v := range d.healthy {
		healthy[k] = v
	}
	return list, healthy
}
