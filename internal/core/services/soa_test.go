package services

import (
	"context"
	"testing"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	soaBefore = "ns1.example.com hostmaster.example.com 2026101500 28800 7200 604800 86400"
	soaAfter  = "ns1.example.com hostmaster.example.com 2026101501 28800 7200 604800 86400"
)

func TestBumpSerialRetriesOnConflict(t *testing.T) {
	repo := new(testutil.MockRepo)
	b := newBase(Deps{Repo: repo, Serials: testSerials(t)})
	soa := &domain.Record{ID: 9, DomainID: 1, Type: domain.TypeSOA, Content: soaBefore}

	repo.On("GetSOARecord", int64(1)).Return(soa, nil)
	repo.On("SwapRecordContent", int64(9), soaBefore, soaAfter).Return(false, nil).Once()
	repo.On("SwapRecordContent", int64(9), soaBefore, soaAfter).Return(true, nil).Once()

	serial, err := b.bumpSerial(context.Background(), repo, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(2026101501), serial)
	repo.AssertNumberOfCalls(t, "GetSOARecord", 2)
	repo.AssertExpectations(t)
}

func TestBumpSerialGivesUp(t *testing.T) {
	repo := new(testutil.MockRepo)
	b := newBase(Deps{Repo: repo, Serials: testSerials(t)})

	repo.On("GetSOARecord", int64(1)).Return(&domain.Record{ID: 9, Content: soaBefore}, nil)
	repo.On("SwapRecordContent", int64(9), soaBefore, soaAfter).Return(false, nil)

	_, err := b.bumpSerial(context.Background(), repo, 1)
	require.Error(t, err)
	repo.AssertNumberOfCalls(t, "SwapRecordContent", maxSerialAttempts)
}

func TestBumpSerialLeavesSpecialSerials(t *testing.T) {
	tests := []struct {
		name string
		soa  *domain.Record
		want uint32
	}{
		{"no SOA", nil, 0},
		{"automatic serial", &domain.Record{ID: 9, Content: "ns1.example.com hostmaster.example.com 0 28800 7200 604800 86400"}, 0},
		{"unparseable serial", &domain.Record{ID: 9, Content: "ns1.example.com hostmaster.example.com soon"}, 0},
		{"serial at its limit", &domain.Record{ID: 9, Content: "ns1.example.com hostmaster.example.com 4294967295 28800 7200 604800 86400"}, 4294967295},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockRepo)
			b := newBase(Deps{Repo: repo, Serials: testSerials(t)})
			repo.On("GetSOARecord", int64(1)).Return(tt.soa, nil)

			serial, err := b.bumpSerial(context.Background(), repo, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, serial)
			repo.AssertNotCalled(t, "SwapRecordContent")
		})
	}
}
