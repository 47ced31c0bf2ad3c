package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseRepository runs the same storage scenario against any live database.
func exerciseRepository(t *testing.T, repo *SQLRepository) {
	ctx := context.Background()

	d := &domain.Domain{Name: "example.com", Type: domain.ZoneNative}
	zoneID, err := repo.CreateDomain(ctx, d)
	require.NoError(t, err)
	require.NotZero(t, zoneID)

	_, err = repo.CreateDomain(ctx, &domain.Domain{Name: "example.com", Type: domain.ZoneMaster})
	assert.True(t, errors.Is(err, domain.ErrIntegrity), "duplicate domain must be an integrity error, got %v", err)

	got, err := repo.GetDomainByName(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, zoneID, got.ID)
	assert.Equal(t, domain.ZoneNative, got.Type)

	// ownership
	require.NoError(t, repo.AddZoneOwner(ctx, domain.ZoneOwner{DomainID: zoneID, Owner: 1}))
	require.NoError(t, repo.AddZoneOwner(ctx, domain.ZoneOwner{DomainID: zoneID, Owner: 2}))
	owners, err := repo.ListZoneOwners(ctx, zoneID)
	require.NoError(t, err)
	assert.Len(t, owners, 2)
	isOwner, err := repo.IsZoneOwner(ctx, zoneID, 2)
	require.NoError(t, err)
	assert.True(t, isOwner)
	require.NoError(t, repo.DeleteZoneOwner(ctx, zoneID, 2))
	n, err := repo.CountZoneOwners(ctx, zoneID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.SetZoneComment(ctx, zoneID, "primary zone"))
	comment, err := repo.GetZoneComment(ctx, zoneID)
	require.NoError(t, err)
	assert.Equal(t, "primary zone", comment)

	// zone type
	require.NoError(t, repo.UpdateZoneType(ctx, zoneID, domain.ZoneSlave))
	require.NoError(t, repo.UpdateDomainMaster(ctx, zoneID, "192.0.2.53"))
	require.NoError(t, repo.UpdateZoneType(ctx, zoneID, domain.ZoneMaster))
	got, err = repo.GetDomain(ctx, zoneID)
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneMaster, got.Type)
	assert.Empty(t, got.Master)

	// template and records
	tmpl := &domain.ZoneTemplate{Name: "default", Description: "default records", Owner: 1}
	tmplID, err := repo.CreateZoneTemplate(ctx, tmpl)
	require.NoError(t, err)
	_, err = repo.CreateTemplateRecord(ctx, &domain.TemplateRecord{TemplateID: tmplID, Name: "[ZONE]", Type: domain.TypeNS, Content: "ns1.example.net", TTL: 3600})
	require.NoError(t, err)
	trs, err := repo.ListTemplateRecords(ctx, tmplID)
	require.NoError(t, err)
	require.Len(t, trs, 1)

	soa := &domain.Record{DomainID: zoneID, Name: "example.com", Type: domain.TypeSOA,
		Content: "ns1.example.net hostmaster.example.net 2026101500 28800 7200 604800 86400", TTL: 86400}
	_, err = repo.CreateRecord(ctx, soa)
	require.NoError(t, err)

	ns := &domain.Record{DomainID: zoneID, Name: "example.com", Type: domain.TypeNS, Content: "ns1.example.net", TTL: 3600}
	_, err = repo.CreateRecord(ctx, ns)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTemplateLink(ctx, domain.TemplateLink{DomainID: zoneID, RecordID: ns.ID, TemplateID: tmplID}))

	www := &domain.Record{DomainID: zoneID, Name: "www.example.com", Type: domain.TypeA, Content: "192.0.2.10", TTL: 300}
	_, err = repo.CreateRecord(ctx, www)
	require.NoError(t, err)

	exists, err := repo.RecordExists(ctx, zoneID, "www.example.com", domain.TypeA, "192.0.2.10", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.RecordExists(ctx, zoneID, "www.example.com", domain.TypeA, "192.0.2.10", www.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	www.Disabled = true
	www.TTL = 600
	require.NoError(t, repo.UpdateRecord(ctx, www))
	stored, err := repo.GetRecord(ctx, www.ID)
	require.NoError(t, err)
	assert.True(t, stored.Disabled)
	assert.Equal(t, 600, stored.TTL)

	gotSOA, err := repo.GetSOARecord(ctx, zoneID)
	require.NoError(t, err)
	require.NotNil(t, gotSOA)
	assert.Equal(t, soa.ID, gotSOA.ID)

	swapped, err := repo.SwapRecordContent(ctx, soa.ID, soa.Content, "ns1.example.net hostmaster.example.net 2026101501 28800 7200 604800 86400")
	require.NoError(t, err)
	assert.True(t, swapped)
	swapped, err = repo.SwapRecordContent(ctx, soa.ID, soa.Content, "stale")
	require.NoError(t, err)
	assert.False(t, swapped)

	// template resync removes exactly the linked records
	require.NoError(t, repo.DeleteTemplateRecords(ctx, zoneID, tmplID))
	require.NoError(t, repo.DeleteTemplateLinksForDomain(ctx, zoneID))
	recs, err := repo.ListRecords(ctx, zoneID)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	for _, r := range recs {
		assert.NotEqual(t, domain.TypeNS, r.Type)
	}

	// rollback
	errBoom := errors.New("boom")
	err = repo.WithinTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.CreateRecord(ctx, &domain.Record{DomainID: zoneID, Name: "tx.example.com", Type: domain.TypeA, Content: "192.0.2.99"}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	byName, err := repo.ListRecordsByName(ctx, zoneID, "tx.example.com")
	require.NoError(t, err)
	assert.Empty(t, byName)

	// supermasters
	require.NoError(t, repo.CreateSupermaster(ctx, domain.Supermaster{IP: "203.0.113.1", Nameserver: "ns1.example.com", Account: "acct1"}))
	err = repo.CreateSupermaster(ctx, domain.Supermaster{IP: "203.0.113.1", Nameserver: "ns1.example.com", Account: "acct2"})
	assert.ErrorIs(t, err, domain.ErrIntegrity)
	sm, err := repo.GetSupermasterByIP(ctx, "203.0.113.1")
	require.NoError(t, err)
	require.NotNil(t, sm)
	assert.Equal(t, "acct1", sm.Account)
	ok, err := repo.SupermasterPairExists(ctx, "203.0.113.1", "ns1.example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, repo.DeleteSupermaster(ctx, "203.0.113.1", "ns1.example.com"))
	ok, err = repo.SupermasterExists(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// cascade
	require.NoError(t, repo.DeleteDomain(ctx, zoneID))
	got, err = repo.GetDomain(ctx, zoneID)
	require.NoError(t, err)
	assert.Nil(t, got)
	recs, err = repo.ListRecords(ctx, zoneID)
	require.NoError(t, err)
	assert.Empty(t, recs)
	n, err = repo.CountZoneOwners(ctx, zoneID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
