package merge_test

import (
	"context"
	"log"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tryvium-travels/memongo"

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

	dbName := memongo.RandomDatabase()
	clientOpts := mongooptions.Client().ApplyURI(mongoServer.URI())
	testClient, err = mongo.Connect(clientOpts)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	testDB = testClient.Database(dbName)

	code := m.Run()

	_ = testClient.Disconnect(context.Background())
	mongoServer.Stop()
	os.Exit(code)
}

// freshCollection drops and returns a clean untyped collection named for the
// running test, so parallel test functions never collide.
func freshCollection(t *testing.T, name string) *queryb.Collection[bson.M] {
	t.Helper()
	coll := testDB.Collection(t.Name() + "_" + name)
	_ = coll.Drop(context.Background())
	return queryb.Wrap[bson.M](coll)
}
