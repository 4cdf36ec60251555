package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/formdb/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // base_uri:version -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	baseURI := params.Item["base_uri"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := baseURI + ":" + version

	if aws.ToString(params.ConditionExpression) == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	baseURI := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == baseURI {
			items = append(items, item)
		}
	}

	version := func(item map[string]types.AttributeValue) uint64 {
		v, _ := strconv.ParseUint(item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
		return v
	}
	sort.Slice(items, func(i, j int) bool {
		if aws.ToBool(params.ScanIndexForward) {
			return version(items[i]) < version(items[j])
		}
		return version(items[i]) > version(items[j])
	})

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

type failingDDBClient struct{}

func (failingDDBClient) PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return nil, errors.New("throttled")
}

func (failingDDBClient) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func newTestDDBCommitStore(ddb DDBClient, baseURI string) *DDBCommitStore {
	return NewDDBCommitStore(NewStore(new(MockS3Client), "test-bucket", "test/"), ddb, "formdb-commits", baseURI)
}

func readCurrent(t *testing.T, store blobstore.BlobStore) string {
	t.Helper()
	data, err := blobstore.Get(context.Background(), store, blobstore.CurrentName)
	require.NoError(t, err)
	return string(data)
}

func TestDDBCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte("dumps/0001.tsv")))
	assert.Equal(t, "dumps/0001.tsv", readCurrent(t, store))
}

func TestDDBCommitStore_MultipleCommits(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	// Past version 9 a lexical sort would pick "9" over "12".
	for i := 1; i <= 12; i++ {
		require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte(fmt.Sprintf("dumps/%04d.tsv", i))))
	}

	assert.Equal(t, "dumps/0012.tsv", readCurrent(t, store))
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte("dumps/0001.tsv")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, blobstore.CurrentName, []byte(fmt.Sprintf("dumps/%04d.tsv", id+2)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentModification):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()
	assert.Greater(t, successes, 0, "at least one writer should succeed")
}

func TestDDBCommitStore_NotFoundBeforeCommit(t *testing.T) {
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	_, err := store.Open(context.Background(), blobstore.CurrentName)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	store1 := newTestDDBCommitStore(ddb, "s3://bucket-a/path/")
	store2 := newTestDDBCommitStore(ddb, "s3://bucket-b/path/")

	require.NoError(t, store1.Put(ctx, blobstore.CurrentName, []byte("dumps/a.tsv")))
	require.NoError(t, store2.Put(ctx, blobstore.CurrentName, []byte("dumps/b.tsv")))

	assert.Equal(t, "dumps/a.tsv", readCurrent(t, store1))
	assert.Equal(t, "dumps/b.tsv", readCurrent(t, store2))
}

func TestDDBCommitStore_CommitError(t *testing.T) {
	store := newTestDDBCommitStore(failingDDBClient{}, "s3://test-bucket/test/")

	err := store.Put(context.Background(), blobstore.CurrentName, []byte("dumps/a.tsv"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConcurrentModification)
}

func TestDDBCommitStore_DumpsGoToS3(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewDDBCommitStore(NewStore(mockClient, "test-bucket", "test"), newMockDDBClient(), "formdb-commits", "s3://test-bucket/test")

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Key == "test/dumps/x.tsv"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "dumps/x.tsv", []byte("word\tform\tdescription\n")))
	mockClient.AssertExpectations(t)
}

func TestDDBCommitStore_Commits(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	commits, err := store.Commits(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, commits)

	for _, dump := range []string{"dumps/a.tsv", "dumps/b.tsv", "dumps/c.tsv"} {
		require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte(dump)))
	}

	commits, err = store.Commits(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []Commit{
		{Version: 3, Dump: "dumps/c.tsv", CommittedAt: base.Add(3 * time.Minute)},
		{Version: 2, Dump: "dumps/b.tsv", CommittedAt: base.Add(2 * time.Minute)},
	}, commits)
}

func TestDecodeCommit(t *testing.T) {
	c, err := decodeCommit(map[string]types.AttributeValue{
		"version": &types.AttributeValueMemberN{Value: "7"},
		"dump":    &types.AttributeValueMemberS{Value: "dumps/a.tsv"},
	})
	require.NoError(t, err)
	assert.Equal(t, Commit{Version: 7, Dump: "dumps/a.tsv"}, c)

	for name, item := range map[string]map[string]types.AttributeValue{
		"NoVersion":  {"dump": &types.AttributeValueMemberS{Value: "d"}},
		"BadVersion": {"version": &types.AttributeValueMemberN{Value: "x"}, "dump": &types.AttributeValueMemberS{Value: "d"}},
		"NoDump":     {"version": &types.AttributeValueMemberN{Value: "1"}},
		"BadTime": {
			"version":      &types.AttributeValueMemberN{Value: "1"},
			"dump":         &types.AttributeValueMemberS{Value: "d"},
			"committed_at": &types.AttributeValueMemberS{Value: "yesterday"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeCommit(item)
			assert.Error(t, err)
		})
	}
}

func TestCurrentBlob_ReadAt(t *testing.T) {
	b := currentBlob("dumps/a.tsv")
	ctx := context.Background()

	assert.Equal(t, int64(11), b.Size())

	buf := make([]byte, 5)
	n, err := b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "dumps", string(buf[:n]))

	n, err = b.ReadAt(ctx, buf, 8)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "tsv", string(buf[:n]))

	_, err = b.ReadAt(ctx, buf, 11)
	assert.ErrorIs(t, err, io.EOF)
}
