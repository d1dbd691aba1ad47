package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworksFixedOrder(t *testing.T) {
	c := Default()
	assert.Equal(t, []Network{NetworkMTN, NetworkGLO, NetworkAirtel}, c.Networks())
}

func TestPlansForEveryNetworkNonEmptyAndUnique(t *testing.T) {
	c := Default()
	for _, n := range c.Networks() {
		plans := c.PlansFor(n)
		require.NotEmpty(t, plans, "network %s has no plans", n)

		seen := make(map[string]bool)
		for _, p := range plans {
			assert.Equal(t, n, p.Network)
			assert.False(t, seen[p.Size], "duplicate size %s for %s", p.Size, n)
			seen[p.Size] = true
			assert.Greater(t, p.Price, 0)
			assert.NotEmpty(t, p.Validity)
		}
	}
}

func TestPlansForUnknownNetwork(t *testing.T) {
	c := Default()
	assert.Empty(t, c.PlansFor(Network("9MOBILE")))
}

func TestPlansForInsertionOrder(t *testing.T) {
	c := Default()

	var sizes []string
	for _, p := range c.PlansFor(NetworkGLO) {
		sizes = append(sizes, p.Size)
	}
	// Declaration order, not price order.
	assert.Equal(t, []string{"1GB", "2.5GB", "5GB", "10GB"}, sizes)
}

func TestAllPlansCoversEveryNetwork(t *testing.T) {
	c := Default()
	all := c.AllPlans()
	require.Len(t, all, 3)
	for _, n := range c.Networks() {
		assert.Equal(t, c.PlansFor(n), all[n])
	}
}

func TestFind(t *testing.T) {
	c := Default()

	offer, ok := c.Find(NetworkGLO, "2.5GB")
	require.True(t, ok)
	assert.Equal(t, 500, offer.Price)
	assert.Equal(t, "30 days", offer.Validity)

	_, ok = c.Find(NetworkMTN, "2.5GB")
	assert.False(t, ok)
}
