package catalog

// Network is a mobile carrier identifier.
type Network string

const (
	NetworkMTN    Network = "MTN"
	NetworkGLO    Network = "GLO"
	NetworkAirtel Network = "AIRTEL"
)

// BundleOffer is a purchasable data allowance for one network.
// Price is in Naira. Offers never change after startup.
type BundleOffer struct {
	Network  Network
	Size     string // e.g. "1GB", "2.5GB"
	Price    int
	Validity string // e.g. "7 days", "30 days"
}

// Catalog holds the fixed menu of data bundles per network.
type Catalog struct {
	networks []Network
	plans    map[Network][]BundleOffer
}

// Default returns the production bundle menu.
func Default() *Catalog {
	c := &Catalog{
		networks: []Network{NetworkMTN, NetworkGLO, NetworkAirtel},
		plans:    make(map[Network][]BundleOffer),
	}
	c.add(NetworkMTN, "1GB", 300, "7 days")
	c.add(NetworkMTN, "2GB", 500, "30 days")
	c.add(NetworkMTN, "5GB", 1000, "30 days")
	c.add(NetworkMTN, "10GB", 2000, "30 days")

	c.add(NetworkGLO, "1GB", 280, "7 days")
	c.add(NetworkGLO, "2.5GB", 500, "30 days")
	c.add(NetworkGLO, "5GB", 950, "30 days")
	c.add(NetworkGLO, "10GB", 1900, "30 days")

	c.add(NetworkAirtel, "1GB", 320, "7 days")
	c.add(NetworkAirtel, "2GB", 550, "30 days")
	c.add(NetworkAirtel, "5GB", 1100, "30 days")
	c.add(NetworkAirtel, "10GB", 2100, "30 days")
	return c
}

func (c *Catalog) add(network Network, size string, price int, validity string) {
	c.plans[network] = append(c.plans[network], BundleOffer{
		Network:  network,
		Size:     size,
		Price:    price,
		Validity: validity,
	})
}

// Networks returns carrier identifiers in their fixed display order.
func (c *Catalog) Networks() []Network {
	out := make([]Network, len(c.networks))
	copy(out, c.networks)
	return out
}

// PlansFor returns the offers for a network in declaration order.
// Unknown networks yield an empty slice, never an error.
func (c *Catalog) PlansFor(network Network) []BundleOffer {
	plans, ok := c.plans[network]
	if !ok {
		return []BundleOffer{}
	}
	out := make([]BundleOffer, len(plans))
	copy(out, plans)
	return out
}

// AllPlans returns every network's offers keyed by network.
func (c *Catalog) AllPlans() map[Network][]BundleOffer {
	out := make(map[Network][]BundleOffer, len(c.plans))
	for _, n := range c.networks {
		out[n] = c.PlansFor(n)
	}
	return out
}

// Find returns the offer matching (network, size) exactly.
func (c *Catalog) Find(network Network, size string) (BundleOffer, bool) {
	for _, offer := range c.plans[network] {
		if offer.Size == size {
			return offer, true
		}
	}
	return BundleOffer{}, false
}
