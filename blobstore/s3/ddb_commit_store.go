package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/formdb/blobstore"
)

// DDBCommitStore stores dumps in S3 and keeps the CURRENT pointer as a
// versioned item log in DynamoDB. Two writers saving to the same location
// cannot both advance the pointer from the same version: the loser gets
// ErrConcurrentModification and its dump is left unreferenced.
//
// Table schema:
//   - Partition key: base_uri (string), the s3://bucket/prefix of the store
//   - Sort key: version (number), starting at 1
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name formdb-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	dumps     *Store
	ddb       DDBClient
	tableName string
	baseURI   string
	now       func() time.Time
}

// DDBClient is the subset of the DynamoDB API the commit store needs.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// ErrConcurrentModification is returned when another writer committed the
// version this writer tried to claim.
var ErrConcurrentModification = blobstore.ErrConcurrentModification

// Commit is one entry of the pointer log.
type Commit struct {
	Version     uint64
	Dump        string
	CommittedAt time.Time
}

// NewDDBCommitStore wraps an S3 store. baseURI partitions the commit log
// and is usually "s3://bucket/prefix".
func NewDDBCommitStore(dumps *Store, ddb DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		dumps:     dumps,
		ddb:       ddb,
		tableName: tableName,
		baseURI:   baseURI,
		now:       time.Now,
	}
}

// Open serves CURRENT from the newest commit and everything else from S3.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name != blobstore.CurrentName {
		return s.dumps.Open(ctx, name)
	}

	commits, err := s.Commits(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, blobstore.ErrNotFound
	}
	return currentBlob(commits[0].Dump), nil
}

// Put writes dumps to S3. Writing CURRENT appends a commit.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name != blobstore.CurrentName {
		return s.dumps.Put(ctx, name, data)
	}
	return s.commit(ctx, string(data))
}

func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	return s.dumps.Delete(ctx, name)
}

func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.dumps.List(ctx, prefix)
}

// Commits returns up to limit commits, newest first.
func (s *DDBCommitStore) Commits(ctx context.Context, limit int32) ([]Commit, error) {
	resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query commit log: %w", err)
	}

	commits := make([]Commit, 0, len(resp.Items))
	for _, item := range resp.Items {
		c, err := decodeCommit(item)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

func (s *DDBCommitStore) commit(ctx context.Context, dump string) error {
	latest, err := s.Commits(ctx, 1)
	if err != nil {
		return err
	}

	next := Commit{Version: 1, Dump: dump, CommittedAt: s.now().UTC()}
	if len(latest) > 0 {
		next.Version = latest[0].Version + 1
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                s.encodeCommit(next),
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: version %d", ErrConcurrentModification, next.Version)
		}
		return fmt.Errorf("failed to commit %s: %w", dump, err)
	}
	return nil
}

func (s *DDBCommitStore) encodeCommit(c Commit) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"base_uri":     &types.AttributeValueMemberS{Value: s.baseURI},
		"version":      &types.AttributeValueMemberN{Value: strconv.FormatUint(c.Version, 10)},
		"dump":         &types.AttributeValueMemberS{Value: c.Dump},
		"committed_at": &types.AttributeValueMemberS{Value: c.CommittedAt.Format(time.RFC3339Nano)},
	}
}

func decodeCommit(item map[string]types.AttributeValue) (Commit, error) {
	var c Commit

	version, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return c, errors.New("commit log: missing version attribute")
	}
	v, err := strconv.ParseUint(version.Value, 10, 64)
	if err != nil {
		return c, fmt.Errorf("commit log: bad version %q: %w", version.Value, err)
	}
	c.Version = v

	dump, ok := item["dump"].(*types.AttributeValueMemberS)
	if !ok {
		return c, fmt.Errorf("commit log: version %d has no dump attribute", v)
	}
	c.Dump = dump.Value

	// Items written before committed_at existed decode with a zero time.
	if at, ok := item["committed_at"].(*types.AttributeValueMemberS); ok {
		if c.CommittedAt, err = time.Parse(time.RFC3339Nano, at.Value); err != nil {
			return c, fmt.Errorf("commit log: version %d: %w", v, err)
		}
	}
	return c, nil
}

// currentBlob is the CURRENT pointer served from the commit log.
type currentBlob string

func (b currentBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return bytes.NewReader([]byte(b)).ReadAt(p, off)
}

func (b currentBlob) Close() error { return nil }

func (b currentBlob) Size() int64 { return int64(len(b)) }
