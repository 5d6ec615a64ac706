package usecase

import (
	"testing"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	affiliatedto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/affiliate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthorityUsecase(repo *fakeAffiliateRepo, cache DownlineCache) *DefaultAuthorityUsecase {
	return NewDefaultAuthorityUsecase(repo, &fakeLogRepo{repo: repo}, &fakeWalletProvider{}, cache, nil)
}

func TestUpdateCommissionPercent_ByDirectParent(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	out, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "A",
		ToWalletID:   "B",
		NewPercent:   mustDecimal("30"),
	})
	require.NoError(t, err)

	assert.True(t, out.OldPercent.Equal(mustDecimal("20")))
	assert.True(t, out.NewPercent.Equal(mustDecimal("30")))
	assert.Equal(t, "A", out.From.WalletID)
	assert.Equal(t, "B", out.To.WalletID)

	node, err := repo.GetNodeByWalletID("B")
	require.NoError(t, err)
	assert.True(t, node.CommissionPercent.Equal(mustDecimal("30")))

	// every percent change leaves an audit row
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "A", repo.logs[0].FromWalletID)
	assert.Equal(t, "B", repo.logs[0].ToWalletID)
	assert.True(t, repo.logs[0].OldPercent.Equal(mustDecimal("20")))
}

func TestUpdateCommissionPercent_InvalidatesCaches(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	cache := newRecordingCache()
	uc := newAuthorityUsecase(repo, cache)

	_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "A",
		ToWalletID:   "B",
		NewPercent:   mustDecimal("30"),
	})
	require.NoError(t, err)

	// cached downline views above B still show the old percent
	assert.ElementsMatch(t, []string{"B", "A", "R"}, cache.invalidated)
}

func TestUpdateCommissionPercent_GrandparentForbidden(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "R",
		ToWalletID:   "B",
		NewPercent:   mustDecimal("10"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, repo.logs)
}

func TestUpdateCommissionPercent_RootSubjectForbidden(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "A",
		ToWalletID:   "R",
		NewPercent:   mustDecimal("10"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateCommissionPercent_AboveParentPercent(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "A",
		ToWalletID:   "B",
		NewPercent:   mustDecimal("60"),
	})
	assert.ErrorIs(t, err, domain.ErrCommissionTooHigh)
}

func TestUpdateCommissionPercent_BelowChildPercent(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	seedNode(repo, "tree-1", "C", strPtr("B"), "15", domain.NodeStatusActive)
	uc := newAuthorityUsecase(repo, nil)

	// B cannot drop under its own child's 15%.
	_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "A",
		ToWalletID:   "B",
		NewPercent:   mustDecimal("10"),
	})
	assert.ErrorIs(t, err, domain.ErrCommissionBelowChild)
}

func TestUpdateCommissionPercent_OutOfRange(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	for _, percent := range []string{"-1", "100.01"} {
		_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
			FromWalletID: "A",
			ToWalletID:   "B",
			NewPercent:   mustDecimal(percent),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	}
}

func TestUpdateAlias_AnyAncestor(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	// alias edits are allowed from any ancestor, not only the parent
	err := uc.UpdateAlias(&affiliatedto.UpdateAliasInput{
		FromWalletID: "R",
		ToWalletID:   "B",
		NewAlias:     "team-lead",
	})
	require.NoError(t, err)

	node, err := repo.GetNodeByWalletID("B")
	require.NoError(t, err)
	assert.Equal(t, "team-lead", node.Alias)
}

func TestUpdateAlias_InvalidatesCaches(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	cache := newRecordingCache()
	uc := newAuthorityUsecase(repo, cache)

	err := uc.UpdateAlias(&affiliatedto.UpdateAliasInput{
		FromWalletID: "A",
		ToWalletID:   "B",
		NewAlias:     "bob",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"B", "A", "R"}, cache.invalidated)
}

func TestUpdateAlias_NonAncestorForbidden(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	seedNode(repo, "tree-1", "S", strPtr("R"), "40", domain.NodeStatusActive)
	uc := newAuthorityUsecase(repo, nil)

	err := uc.UpdateAlias(&affiliatedto.UpdateAliasInput{
		FromWalletID: "S",
		ToWalletID:   "B",
		NewAlias:     "x",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateAlias_DifferentTrees(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	seedTree(repo, "tree-2", "X", "70")
	uc := newAuthorityUsecase(repo, nil)

	err := uc.UpdateAlias(&affiliatedto.UpdateAliasInput{
		FromWalletID: "X",
		ToWalletID:   "B",
		NewAlias:     "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotInSameTree)
}

func TestSetNodeStatus_DeactivateInvalidatesCaches(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	cache := newRecordingCache()
	uc := newAuthorityUsecase(repo, cache)

	err := uc.SetNodeStatus(&affiliatedto.SetNodeStatusInput{
		FromWalletID: "R",
		ToWalletID:   "B",
		Active:       false,
	})
	require.NoError(t, err)

	node, err := repo.GetNodeByWalletID("B")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeStatusInactive, node.Status)

	// cached downline views of B and everything above it are stale now
	assert.ElementsMatch(t, []string{"B", "A", "R"}, cache.invalidated)
}

func TestAdminUpdateRootCommission(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	out, err := uc.AdminUpdateRootCommission(&affiliatedto.AdminUpdateRootCommissionInput{
		RootWalletID: "R",
		NewPercent:   mustDecimal("80"),
	})
	require.NoError(t, err)
	assert.True(t, out.OldPercent.Equal(mustDecimal("70")))
	assert.True(t, out.NewPercent.Equal(mustDecimal("80")))

	root, err := repo.GetNodeByWalletID("R")
	require.NoError(t, err)
	assert.True(t, root.CommissionPercent.Equal(mustDecimal("80")))

	tree, err := repo.GetTreeByID("tree-1")
	require.NoError(t, err)
	assert.True(t, tree.TotalCommissionPercent.Equal(mustDecimal("80")))

	require.Len(t, repo.logs, 1)
	assert.Equal(t, "R", repo.logs[0].FromWalletID)
	assert.Equal(t, "R", repo.logs[0].ToWalletID)
}

func TestAdminUpdateRootCommission_UnknownRoot(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	_, err := uc.AdminUpdateRootCommission(&affiliatedto.AdminUpdateRootCommissionInput{
		RootWalletID: "nobody",
		NewPercent:   mustDecimal("80"),
	})
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}

func TestGetCommissionChangeHistory(t *testing.T) {
	repo := newFakeAffiliateRepo()
	seedReferralChain(repo)
	uc := newAuthorityUsecase(repo, nil)

	_, err := uc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: "A",
		ToWalletID:   "B",
		NewPercent:   mustDecimal("25"),
	})
	require.NoError(t, err)

	logs, err := uc.GetCommissionChangeHistory("B")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].NewPercent.Equal(mustDecimal("25")))

	logs, err = uc.GetCommissionChangeHistory("R")
	require.NoError(t, err)
	assert.Empty(t, logs)
}
