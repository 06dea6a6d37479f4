package merge

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

// Result summarizes one Execute run: how many documents moved through each
// phase of the merge, and how many parent documents were ultimately updated.
type Result struct {
	// OneFanIn is the number of rows fanned into the "one" temp collection,
	// from both the parent side (ParentChildMergeKey) and every "one" child
	// side (ChildByMergeKey).
	OneFanIn int64
	// OneCollapsed is the number of parent documents produced by collapsing
	// the "one" temp collection (one row per distinct parent_id).
	OneCollapsed int64
	// ManyFanIn is the number of rows copied into the group-and-update source
	// collection from every "many" child relationship.
	ManyFanIn int64
	// ParentsUpdated is the number of parent documents that received a bulk
	// $set update in the final phase.
	ParentsUpdated int64
}

// tempSuffixOne and tempSuffix name the two temporary collections the engine
// uses to stage the fan-in before writing back to the parent: T1 ("_one")
// holds raw parent/child rows keyed by merge_id ahead of collapse, T2 holds
// one collapsed document per parent_id ready for the final group-and-update.
const (
	tempSuffixOne = "_merge_temp_one"
	tempSuffix    = "_merge_temp"
)

// Execute runs the full denormalizing merge of parentName against db: it
// parses specs, fans "one" relationships into a temp collection and collapses
// them by parent, fans "many" relationships alongside the collapsed "one"
// documents into a second temp collection, and finally updates every parent
// document in place from the grouped result. Both temp collections are
// dropped on a successful exit; a failed run leaves them in place for
// inspection.
func Execute(ctx context.Context, db *mongo.Database, parentName string, specs []string) (Result, error) {
	entries, err := ParseSpec(parentName, specs)
	if err != nil {
		return Result{}, err
	}

	var ones, manys []SpecEntry
	for _, e := range entries {
		if e.Relation == RelationMany {
			manys = append(manys, e)
		} else {
			ones = append(ones, e)
		}
	}

	parent := queryb.Wrap[bson.M](db.Collection(parentName))
	t1 := queryb.Wrap[bson.M](db.Collection(parentName + tempSuffixOne))
	t2 := queryb.Wrap[bson.M](db.Collection(parentName + tempSuffix))

	if err := dropIfExists(ctx, t1); err != nil {
		return Result{}, fmt.Errorf("%w: clearing %s: %v", ErrTransport, t1.Name(), err)
	}
	if err := dropIfExists(ctx, t2); err != nil {
		return Result{}, fmt.Errorf("%w: clearing %s: %v", ErrTransport, t2.Name(), err)
	}

	var result Result

	if len(ones) > 0 {
		n, err := fanInOne(ctx, db, parent, t1, ones)
		if err != nil {
			return result, err
		}
		result.OneFanIn = n

		collapsed, err := collapseOne(ctx, t1, t2, ones)
		if err != nil {
			return result, err
		}
		result.OneCollapsed = collapsed
	}

	if len(manys) > 0 {
		n, err := fanInMany(ctx, db, t2, manys)
		if err != nil {
			return result, err
		}
		result.ManyFanIn = n
	}

	if len(ones) == 0 && len(manys) == 0 {
		return result, nil
	}

	writeResult, err := GroupAndUpdate(ctx, t2, parent, entries)
	if err != nil {
		return result, err
	}
	result.ParentsUpdated = writeResult.ParentsUpdated

	if err := dropIfExists(ctx, t1); err != nil {
		return result, fmt.Errorf("%w: cleanup %s: %v", ErrTransport, t1.Name(), err)
	}
	if err := dropIfExists(ctx, t2); err != nil {
		return result, fmt.Errorf("%w: cleanup %s: %v", ErrTransport, t2.Name(), err)
	}

	return result, nil
}

// fanInOne copies, for every "one" entry, the parent-side row (keyed by the
// merge_id it references) and the child-side row (keyed by the merge_id it
// owns) into t1, so collapseOne can later group matching rows together.
func fanInOne(ctx context.Context, db *mongo.Database, parent, t1 *queryb.Collection[bson.M], ones []SpecEntry) (int64, error) {
	var total int64

	for _, e := range ones {
		n, err := AggCopy(ctx, parent, t1, ParentChildMergeKey(e.ParentKey, e.ChildName, e.ChildKey))
		if err != nil {
			return total, err
		}
		total += n

		child := queryb.Wrap[bson.M](db.Collection(e.ChildName))
		n, err = AggCopy(ctx, child, t1, ChildByMergeKey(e.ParentKey, e.ChildName, e.ChildKey))
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

// collapseOne runs MergeOneAll over t1 and writes one collapsed document per
// parent_id into t2.
func collapseOne(ctx context.Context, t1, t2 *queryb.Collection[bson.M], ones []SpecEntry) (int64, error) {
	var accumulators, projectors bson.D
	for _, e := range ones {
		accumulators = append(accumulators, OneAccumulator(e.ParentKey))
		projectors = append(projectors, OneProjector(e.ParentKey))
	}
	return AggCopy(ctx, t1, t2, MergeOneAll(accumulators, projectors))
}

// fanInMany copies every "many" child relationship's rows into t2, keyed by
// parent_id alongside whatever "one" rows collapseOne already wrote there.
func fanInMany(ctx context.Context, db *mongo.Database, t2 *queryb.Collection[bson.M], manys []SpecEntry) (int64, error) {
	var total int64
	for _, e := range manys {
		child := queryb.Wrap[bson.M](db.Collection(e.ChildName))
		n, err := AggCopy(ctx, child, t2, CopyManyWithParentID(e.ParentKey, e.ChildName, e.ChildKey))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
