package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"procurement/internal/app/dto"
	"procurement/internal/app/extract"
	"procurement/internal/app/handler"
	"procurement/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBackend(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	return startBackendWithExtractor(t, nil)
}

func startBackendWithExtractor(t *testing.T, extractor extract.Extractor) *repository.MemoryRepository {
	t.Helper()

	gin.SetMode(gin.TestMode)
	repo := repository.NewMemory()
	router := gin.New()
	handler.NewAPIHandler(repo, nil, extractor).RegisterAPIRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	t.Setenv("BACKEND_URL", srv.URL)
	t.Setenv("NOTICE_TTL", "1s")

	return repo
}

func TestRunSubmitListAndStatus(t *testing.T) {
	startBackend(t)
	ctx := context.Background()

	var out, errOut bytes.Buffer
	err := run(ctx, []string{"submit",
		"--set", "title=Office chairs",
		"--set", "vendor_name=ACME",
		"--set", "total_cost=360",
		"--line", "description=Chair,unit_price=90,amount=4,unit=pcs,total_price=360",
	}, &out, &errOut)
	require.NoError(t, err, errOut.String())
	assert.Contains(t, errOut.String(), "Request submitted successfully!")

	var created dto.RequestResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Equal(t, "Office chairs", created.Title)
	assert.Equal(t, dto.StatusOpen, created.Status)
	require.Len(t, created.OrderLines, 1)

	out.Reset()
	errOut.Reset()
	err = run(ctx, []string{"status", "--id", "1", "--status", "In Progress"}, &out, &errOut)
	require.NoError(t, err, errOut.String())
	assert.Equal(t, "1\tIn Progress\n", out.String())
	assert.Contains(t, errOut.String(), "Status updated")

	out.Reset()
	err = run(ctx, []string{"list", "--expand", "1"}, &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "In Progress")
	assert.Contains(t, out.String(), "Chair")
}

func TestRunStatusRejectsUnknownValue(t *testing.T) {
	startBackend(t)

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"status", "--id", "1", "--status", "Done"}, &out, &errOut)
	assert.ErrorIs(t, err, dto.ErrInvalidStatus)
}

func TestRunStatusFailureRefetches(t *testing.T) {
	startBackend(t)

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"status", "--id", "9", "--status", "Closed"}, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Failed to update status")
}

func TestRunSubmitDryRun(t *testing.T) {
	repo := startBackend(t)

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"submit", "--dry-run",
		"--line", "description=A", "--line", "description=B", "--line", "description=C",
	}, &out, &errOut)
	require.NoError(t, err)

	var d dto.ProcurementRequest
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	assert.Len(t, d.OrderLines, 3)

	count, err := repo.CountRequests(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.ErrorIs(t, run(context.Background(), nil, &out, &errOut), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"frobnicate"}, &out, &errOut), errUsage)
}

func TestSplitAssignment(t *testing.T) {
	field, value, err := splitAssignment("vat_id=DE1=2")
	require.NoError(t, err)
	assert.Equal(t, "vat_id", field)
	assert.Equal(t, "DE1=2", value)

	_, _, err = splitAssignment("=x")
	assert.Error(t, err)
	_, _, err = splitAssignment("title")
	assert.Error(t, err)
}

type linesExtractor struct {
	lines []dto.OrderLine
}

func (e linesExtractor) Extract(context.Context, string, []byte) (dto.ProcurementRequest, error) {
	return dto.ProcurementRequest{Title: "Offer", OrderLines: e.lines}, nil
}

func (e linesExtractor) PredictCommodityGroup(context.Context, dto.ProcurementRequest) (string, error) {
	return extract.FallbackCommodityGroup, nil
}

func TestRunSubmitDropsLinesInAnyOrder(t *testing.T) {
	startBackendWithExtractor(t, linesExtractor{lines: []dto.OrderLine{
		{Description: "A"}, {Description: "B"}, {Description: "C"},
	}})

	document := filepath.Join(t.TempDir(), "offer.pdf")
	require.NoError(t, os.WriteFile(document, []byte("%PDF"), 0o600))

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"submit", "--dry-run",
		"--document", document,
		"--drop-line", "2", "--drop-line", "0", "--drop-line", "2",
	}, &out, &errOut)
	require.NoError(t, err, errOut.String())

	var d dto.ProcurementRequest
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	require.Len(t, d.OrderLines, 1)
	assert.Equal(t, "B", d.OrderLines[0].Description)
}

func TestDropOrder(t *testing.T) {
	assert.Equal(t, []int{3, 1, 0}, dropOrder([]int{0, 3, 1, 3}))
	assert.Empty(t, dropOrder(nil))
}
