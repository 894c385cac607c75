package sim

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/streamcache/dsca-go"
)

// Client is a cache under simulation. Request replays one request and
// reports whether it hit, inserting the key on a miss.
type Client interface {
	Init(capacity int) error
	Request(key uint64) bool
	Name() string
	Close()
	Metrics() string
}

const (
	Ristretto    = "ristretto"
	HashicorpARC = "hashicorp-arc"
)

// Baselines lists the third party caches that can be simulated next to the
// dsca policy kinds.
func Baselines() []string {
	return []string{Ristretto, HashicorpARC}
}

// NewClient returns an uninitialized client for a policy kind name or a
// baseline name.
func NewClient(policy string, params dsca.Params) (Client, error) {
	switch policy {
	case Ristretto:
		return &RistrettoClient{}, nil
	case HashicorpARC:
		return &ARCClient{}, nil
	}
	kind, err := dsca.ParseKind(policy)
	if err != nil {
		return nil, err
	}
	return &DSCAClient{Kind: kind, Params: params}, nil
}

type DSCAClient struct {
	Kind   dsca.Kind
	Params dsca.Params
	client *dsca.Instance[uint64]
}

func (c *DSCAClient) Init(capacity int) error {
	client, err := dsca.NewBuilder[uint64](capacity).Policy(c.Kind).Params(c.Params).RecordStats().Build()
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *DSCAClient) Request(key uint64) bool {
	return c.client.Request(key)
}

func (c *DSCAClient) Name() string {
	return c.Kind.String()
}

func (c *DSCAClient) Close() {
	c.client.Clear()
}

func (c *DSCAClient) Stats() dsca.Stats {
	return c.client.Stats()
}

func (c *DSCAClient) Metrics() string {
	st := c.client.Stats()
	if st.Boundaries == 0 {
		return fmt.Sprintf("evictions: %d", st.Evictions)
	}
	return fmt.Sprintf("evictions: %d, boundaries: %d, window p50: %.0f, topk p50: %.0f",
		st.Evictions, st.Boundaries, st.WindowLength.P50, st.TopKSize.P50)
}

// RistrettoClient waits for every set to be applied, so a request sees the
// outcome of all earlier ones.
type RistrettoClient struct {
	client *ristretto.Cache
}

func (c *RistrettoClient) Init(capacity int) error {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        int64(capacity) * 10,
		MaxCost:            int64(capacity),
		BufferItems:        64,
		IgnoreInternalCost: true,
		Metrics:            true,
	})
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *RistrettoClient) Request(key uint64) bool {
	if _, ok := c.client.Get(key); ok {
		return true
	}
	c.client.Set(key, struct{}{}, 1)
	c.client.Wait()
	return false
}

func (c *RistrettoClient) Name() string {
	return Ristretto
}

func (c *RistrettoClient) Close() {
	c.client.Close()
}

func (c *RistrettoClient) Metrics() string {
	m := c.client.Metrics
	return fmt.Sprintf("sets dropped: %d, sets rejected: %d", m.SetsDropped(), m.SetsRejected())
}

type ARCClient struct {
	client *arc.ARCCache[uint64, struct{}]
}

func (c *ARCClient) Init(capacity int) error {
	client, err := arc.NewARC[uint64, struct{}](capacity)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *ARCClient) Request(key uint64) bool {
	if _, ok := c.client.Get(key); ok {
		return true
	}
	c.client.Add(key, struct{}{})
	return false
}

func (c *ARCClient) Name() string {
	return HashicorpARC
}

func (c *ARCClient) Close() {
	c.client.Purge()
}

func (c *ARCClient) Metrics() string {
	return fmt.Sprintf("len: %d", c.client.Len())
}
