package tui

import (
	"sync"

	"github.com/ghfolio/ghfolio/internal/githubapi"
)

// listingCache keeps per-process copies of organization and repository
// listings so screen navigation does not refetch. The refresh key clears it.
type listingCache struct {
	mutex         sync.Mutex
	organizations []githubapi.Organization
	repositories  map[string][]githubapi.Repository
}

func newListingCache() *listingCache {
	return &listingCache{repositories: make(map[string][]githubapi.Repository)}
}

func (cache *listingCache) Organizations() ([]githubapi.Organization, bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	if cache.organizations == nil {
		return nil, false
	}
	return cache.organizations, true
}

func (cache *listingCache) StoreOrganizations(organizations []githubapi.Organization) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.organizations = organizations
}

func (cache *listingCache) Repositories(organization string) ([]githubapi.Repository, bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	repositories, known := cache.repositories[organization]
	return repositories, known
}

func (cache *listingCache) StoreRepositories(organization string, repositories []githubapi.Repository) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.repositories[organization] = repositories
}

func (cache *listingCache) InvalidateAll() {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.organizations = nil
	cache.repositories = make(map[string][]githubapi.Repository)
}

func (cache *listingCache) InvalidateRepositories(organization string) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	delete(cache.repositories, organization)
}
