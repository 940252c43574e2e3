package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// maxOwnerDepth bounds recursive owner-account resolution so malformed
// remote data cannot drive unbounded recursion.
const maxOwnerDepth = 8

// IdentityCache provides idempotent get-or-create resolution for the
// reference entities a message points at. Simple entities resolve from
// their natural key with first-write-wins semantics; accounts fetch their
// full remote representation on a miss, resolving the owner chain
// recursively. Retry on fetch failures lives in the gateway, not here.
type IdentityCache struct {
	accounts          domain.AccountRepository
	currencies        domain.CurrencyRepository
	apiVersions       domain.APIVersionRepository
	providerErrors    domain.ProviderErrorRepository
	messagingServices domain.MessagingServiceRepository
	gateway           *FetchGateway
	logger            *slog.Logger
}

func NewIdentityCache(
	accounts domain.AccountRepository,
	currencies domain.CurrencyRepository,
	apiVersions domain.APIVersionRepository,
	providerErrors domain.ProviderErrorRepository,
	messagingServices domain.MessagingServiceRepository,
	gateway *FetchGateway,
	logger *slog.Logger,
) *IdentityCache {
	return &IdentityCache{
		accounts:          accounts,
		currencies:        currencies,
		apiVersions:       apiVersions,
		providerErrors:    providerErrors,
		messagingServices: messagingServices,
		gateway:           gateway,
		logger:            logger.With("component", "identity_cache"),
	}
}

func (c *IdentityCache) ResolveCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	return c.currencies.GetOrCreate(ctx, code)
}

func (c *IdentityCache) ResolveAPIVersion(ctx context.Context, date string) (*domain.APIVersion, error) {
	return c.apiVersions.GetOrCreate(ctx, date)
}

func (c *IdentityCache) ResolveError(ctx context.Context, code, message string) (*domain.ProviderError, error) {
	return c.providerErrors.GetOrCreate(ctx, code, message)
}

func (c *IdentityCache) ResolveMessagingService(ctx context.Context, sid string) (*domain.MessagingService, error) {
	return c.messagingServices.GetOrCreate(ctx, sid)
}

// ResolveAccount returns the local mirror of the given account SID, fetching
// and creating it (and its owner chain) when absent.
func (c *IdentityCache) ResolveAccount(ctx context.Context, sid string) (*domain.Account, error) {
	return c.resolveAccount(ctx, sid, 0)
}

func (c *IdentityCache) resolveAccount(ctx context.Context, sid string, depth int) (*domain.Account, error) {
	if depth > maxOwnerDepth {
		return nil, fmt.Errorf("account %s: owner chain exceeds depth %d", sid, maxOwnerDepth)
	}

	existing, err := c.accounts.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	remote, err := c.gateway.FetchAccount(ctx, sid)
	if err != nil {
		return nil, err
	}

	accountType, ok := domain.AccountTypeFromLabel(remote.Type)
	if !ok {
		return nil, fmt.Errorf("account %s: unmapped account type label %q", sid, remote.Type)
	}
	accountStatus, ok := domain.AccountStatusFromLabel(remote.Status)
	if !ok {
		return nil, fmt.Errorf("account %s: unmapped account status label %q", sid, remote.Status)
	}

	account := &domain.Account{
		SID:          remote.SID,
		FriendlyName: remote.FriendlyName,
		Type:         accountType,
		Status:       accountStatus,
	}

	// A self-owned account is a root account and carries no owner reference.
	if remote.OwnerAccountSID != "" && remote.OwnerAccountSID != remote.SID {
		owner, err := c.resolveAccount(ctx, remote.OwnerAccountSID, depth+1)
		if err != nil {
			return nil, fmt.Errorf("account %s: failed to resolve owner: %w", sid, err)
		}
		account.OwnerAccountSID = &owner.SID
	}

	if err := c.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	// Read back so a concurrent first writer's row wins consistently.
	created, err := c.accounts.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("account %s vanished after create", sid)
	}
	c.logger.InfoContext(ctx, "Mirrored new account", "sid", sid, "depth", depth)
	return created, nil
}
