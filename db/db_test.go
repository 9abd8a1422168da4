package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/notegrid/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory, keyed by PK. The first throttle calls
// to BatchGetItem only answer for the first key and hand the rest back as
// unprocessed.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items      map[string]map[string]*dynamodb.AttributeValue
	throttle   int
	batchCalls int
	keyCounts  []int
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	f.batchCalls++
	out := &dynamodb.BatchGetItemOutput{
		Responses:       map[string][]map[string]*dynamodb.AttributeValue{},
		UnprocessedKeys: map[string]*dynamodb.KeysAndAttributes{},
	}
	for table, ka := range in.RequestItems {
		f.keyCounts = append(f.keyCounts, len(ka.Keys))
		seen := map[string]bool{}
		for _, key := range ka.Keys {
			if seen[*key["PK"].S] {
				return nil, errors.New("ValidationException: Provided list of item keys contains duplicates")
			}
			seen[*key["PK"].S] = true
		}

		keys := ka.Keys
		if f.throttle > 0 && len(keys) > 1 {
			f.throttle--
			out.UnprocessedKeys[table] = &dynamodb.KeysAndAttributes{Keys: keys[1:]}
			keys = keys[:1]
		}
		for _, key := range keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestRecord(t *testing.T) {
	s := model.Score{
		Mode:          model.TimeMode,
		Tempo:         100,
		TimeSignature: "4/4",
		Parts: []model.Part{
			{Units: []model.Unit{model.Rest(0, 1), model.Note(1, 1, 60)}},
			{Units: []model.Unit{model.Note(0, 1, 48)}},
		},
	}
	rec := Record("abc", "in.csv", s, "2024-01-01T00:00:00Z")
	assert.Equal(t, model.ScoreRecord{
		ID:            "abc",
		Source:        "in.csv",
		Parts:         2,
		Units:         3,
		Mode:          "time",
		Tempo:         100,
		TimeSignature: "4/4",
		CreatedAt:     "2024-01-01T00:00:00Z",
	}, rec)
}

func TestPutThenGet(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	c := NewCatalog(fake, "scores")

	rec := model.ScoreRecord{ID: "one", Source: "a.csv", Parts: 2, Units: 7, Mode: "beat", TimeSignature: "3/4"}
	require.NoError(t, c.Put(rec))
	assert.Equal(t, aws.String("7"), fake.items["one"]["Units"].N)

	got, err := c.Get([]string{"one", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.ScoreRecord{"one": rec}, got)
}

func TestGetBatchesKeys(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	c := NewCatalog(fake, "scores")

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}
	_, err := c.Get(ids)
	require.NoError(t, err)
	assert.Equal(t, 3, fake.batchCalls)
	assert.Equal(t, []int{100, 100, 50}, fake.keyCounts)
}

func TestGetSendsEachIdOnce(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	c := NewCatalog(fake, "scores")
	require.NoError(t, c.Put(model.ScoreRecord{ID: "a"}))

	got, err := c.Get([]string{"a", "b", "a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, fake.keyCounts)
	assert.Len(t, got, 1)
}

func TestGetRetriesUnprocessedKeys(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}, throttle: 2}
	c := NewCatalog(fake, "scores")
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Put(model.ScoreRecord{ID: id, Source: id + ".csv"}))
	}

	got, err := c.Get([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, fake.batchCalls)
	assert.Equal(t, []int{3, 2, 1}, fake.keyCounts)
	require.Len(t, got, 3)
	assert.Equal(t, "c.csv", got["c"].Source)
}
