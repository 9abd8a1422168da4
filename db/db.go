package db

import (
	"strconv"
	"time"

	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/util"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

const (
	// BatchGetItem takes at most 100 keys per call
	maxBatch = 100

	maxAttempts = 8
	retryDelay  = 50 * time.Millisecond
)

type Catalog struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewCatalog(client dynamodbiface.DynamoDBAPI, table string) *Catalog {
	return &Catalog{client: client, table: table}
}

// Connect opens the catalog at CATALOG_ENDPOINT / CATALOG_TABLE.
func Connect() (*Catalog, error) {
	endpoint := constants.GetCatalogEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewCatalog(dynamodb.New(sess), constants.GetCatalogTable()), nil
}

func Record(id, source string, s model.Score, createdAt string) model.ScoreRecord {
	counts := make([]uint, len(s.Parts))
	for i, p := range s.Parts {
		counts[i] = uint(len(p.Units))
	}
	return model.ScoreRecord{
		ID:            id,
		Source:        source,
		Parts:         uint(len(s.Parts)),
		Units:         util.Sum(counts),
		Mode:          s.Mode.String(),
		Tempo:         s.Tempo,
		TimeSignature: s.TimeSignature,
		CreatedAt:     createdAt,
	}
}

func formatUint(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func (c *Catalog) Put(rec model.ScoreRecord) error {
	item := map[string]*dynamodb.AttributeValue{
		"PK":            {S: aws.String(rec.ID)},
		"Source":        {S: aws.String(rec.Source)},
		"Parts":         {N: aws.String(formatUint(rec.Parts))},
		"Units":         {N: aws.String(formatUint(rec.Units))},
		"Mode":          {S: aws.String(rec.Mode)},
		"Tempo":         {N: aws.String(strconv.FormatFloat(rec.Tempo, 'f', -1, 64))},
		"TimeSignature": {S: aws.String(rec.TimeSignature)},
		"CreatedAt":     {S: aws.String(rec.CreatedAt)},
	}
	_, err := c.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	return errors.Wrap(err, "error from DynamoDB")
}

// Get looks up records by id. Ids that aren't in the catalog are simply
// missing from the result. Keys DynamoDB leaves unprocessed are retried
// until it has answered for all of them.
func (c *Catalog) Get(ids []string) (map[string]model.ScoreRecord, error) {
	res := make(map[string]model.ScoreRecord)
	ids = util.Unique(ids)

	for start := 0; start < len(ids); start += maxBatch {
		end := util.Min(start+maxBatch, len(ids))

		var keys []map[string]*dynamodb.AttributeValue
		for _, id := range ids[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(id)},
			})
		}

		requestItems := map[string]*dynamodb.KeysAndAttributes{
			c.table: {Keys: keys},
		}
		for attempt := 0; len(requestItems) > 0; attempt++ {
			if attempt >= maxAttempts {
				return res, errors.Errorf("DynamoDB left keys unprocessed after %d attempts", maxAttempts)
			}
			if attempt > 0 {
				time.Sleep(retryDelay << (attempt - 1))
			}

			dbres, err := c.client.BatchGetItem(&dynamodb.BatchGetItemInput{RequestItems: requestItems})
			if err != nil {
				return res, errors.Wrap(err, "error from DynamoDB")
			}
			for _, v := range dbres.Responses[c.table] {
				rec := parseRecord(v)
				res[rec.ID] = rec
			}
			requestItems = pending(dbres.UnprocessedKeys)
		}
	}
	return res, nil
}

func pending(unprocessed map[string]*dynamodb.KeysAndAttributes) map[string]*dynamodb.KeysAndAttributes {
	res := make(map[string]*dynamodb.KeysAndAttributes)
	for table, ka := range unprocessed {
		if ka != nil && len(ka.Keys) > 0 {
			res[table] = ka
		}
	}
	return res
}

func parseRecord(v map[string]*dynamodb.AttributeValue) model.ScoreRecord {
	str := func(key string) string {
		if a, ok := v[key]; ok && a.S != nil {
			return *a.S
		}
		return ""
	}
	num := func(key string) float64 {
		if a, ok := v[key]; ok && a.N != nil {
			f, _ := strconv.ParseFloat(*a.N, 64)
			return f
		}
		return 0
	}

	return model.ScoreRecord{
		ID:            str("PK"),
		Source:        str("Source"),
		Parts:         uint(num("Parts")),
		Units:         uint(num("Units")),
		Mode:          str("Mode"),
		Tempo:         num("Tempo"),
		TimeSignature: str("TimeSignature"),
		CreatedAt:     str("CreatedAt"),
	}
}
