package loader_test

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tryvium-travels/memongo"

	"github.com/gjmurakami-10gen/mongomerge/loader"
	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

var (
	mongoServer *memongo.Server
	testClient  *mongo.Client
	testDB      *mongo.Database
)

func TestMain(m *testing.M) {
	var err error
	mongoServer, err = memongo.StartWithOptions(&memongo.Options{
		MongoVersion: "8.2.5",
	})
	if err != nil {
		log.Fatalf("memongo start: %v", err)
	}

	clientOpts := mongooptions.Client().ApplyURI(mongoServer.URI())
	testClient, err = mongo.Connect(clientOpts)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	testDB = testClient.Database(memongo.RandomDatabase())

	code := m.Run()

	_ = testClient.Disconnect(context.Background())
	mongoServer.Stop()
	os.Exit(code)
}

func freshCollection(t *testing.T, name string) *queryb.Collection[bson.M] {
	t.Helper()
	coll := testDB.Collection(t.Name() + "_" + name)
	_ = coll.Drop(context.Background())
	return queryb.Wrap[bson.M](coll)
}

func artistColumnMap() loader.ColumnMap {
	schema := loader.TableSchema{
		Name: "artist",
		Columns: []loader.Column{
			{Name: "id", DataType: "INT"},
			{Name: "name", DataType: "TEXT"},
			{Name: "t", DataType: "TIMESTAMP"},
			{Name: "pts", DataType: "INTEGER[]"},
			{Name: "live", DataType: "BOOLEAN"},
		},
	}
	cm, err := loader.BuildColumnMap(schema)
	if err != nil {
		panic(err)
	}
	return cm
}

func TestLoadTable_ConvertsAndInsertsRow(t *testing.T) {
	ctx := context.Background()
	dest := freshCollection(t, "artist")
	cm := artistColumnMap()

	dump := "42\tFoo\t2013-07-21 22:47:57.660809+00\t{150,77950}\tt\n"

	report, err := loader.LoadTable(ctx, dest, cm, "artist", strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Inserted)
	assert.Empty(t, report.Warnings)

	doc, err := dest.FindOne(ctx, queryb.Eq("id", int64(42)))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Foo", (*doc)["name"])
	assert.Equal(t, []int64{150, 77950}, (*doc)["pts"])
	assert.Equal(t, true, (*doc)["live"])
}

func TestLoadTable_NullRowOmitsEveryField(t *testing.T) {
	ctx := context.Background()
	dest := freshCollection(t, "artist")
	cm := artistColumnMap()

	dump := "1\t\\N\t\\N\t\\N\t\\N\n"

	report, err := loader.LoadTable(ctx, dest, cm, "artist", strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Inserted)

	doc, err := dest.FindOne(ctx, queryb.Eq("id", int64(1)))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, bson.M{"id": int64(1)}, *doc)
}

func TestLoadTable_BadColumnIsWarnedAndRowContinues(t *testing.T) {
	ctx := context.Background()
	dest := freshCollection(t, "artist")
	cm := artistColumnMap()

	dump := "7\tFoo\tnot-a-timestamp\t{}\tt\n"

	report, err := loader.LoadTable(ctx, dest, cm, "artist", strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Inserted)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "t", report.Warnings[0].Column)

	doc, err := dest.FindOne(ctx, queryb.Eq("id", int64(7)))
	require.NoError(t, err)
	require.NotNil(t, doc)
	_, hasTimestamp := (*doc)["t"]
	assert.False(t, hasTimestamp)
	assert.Equal(t, []int64{}, (*doc)["pts"])
}

func TestLoadTable_BulkFlushBoundary(t *testing.T) {
	ctx := context.Background()
	dest := freshCollection(t, "artist")

	schema := loader.TableSchema{Name: "seq", Columns: []loader.Column{
		{Name: "id", DataType: "INT"},
	}}
	cm, err := loader.BuildColumnMap(schema)
	require.NoError(t, err)

	const total = 2500
	var b strings.Builder
	for i := 0; i < total; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('\n')
	}

	report, err := loader.LoadTable(ctx, dest, cm, "seq", strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, int64(total), report.Inserted)

	count, err := dest.CountDocuments(ctx, queryb.Raw(bson.D{}))
	require.NoError(t, err)
	assert.Equal(t, int64(total), count)
}

func TestLoadTable_EmptyReaderInsertsNothing(t *testing.T) {
	ctx := context.Background()
	dest := freshCollection(t, "artist")
	cm := artistColumnMap()

	report, err := loader.LoadTable(ctx, dest, cm, "artist", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Inserted)
}
