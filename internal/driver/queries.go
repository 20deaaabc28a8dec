package driver

// IndexQueries are issued by BuildIndices.
var IndexQueries = []string{
	"CREATE INDEX ON :Entity(id);",
	"CREATE INDEX ON :Entity(run_id);",
	"CREATE INDEX ON :Communication(id);",
	"CREATE INDEX ON :Cluster(id);",
}

// Entity ids are unique across developers and investors, so nodes are keyed
// by id alone and relationships can match either type.
const (
	SaveDeveloperNodesQuery = `
		UNWIND $rows AS row
		MERGE (n:Entity {id: row.id})
		SET n.type = row.type,
			n.name = row.name,
			n.alternate_names = row.alternate_names,
			n.variants = row.variants,
			n.country = row.country,
			n.project_id = row.project_id,
			n.run_id = $run_id,
			n:Developer
	`

	SaveInvestorNodesQuery = `
		UNWIND $rows AS row
		MERGE (n:Entity {id: row.id})
		SET n.type = row.type,
			n.name = row.name,
			n.alternate_names = row.alternate_names,
			n.variants = row.variants,
			n.run_id = $run_id,
			n:Investor
	`

	SaveRelationshipsQuery = `
		UNWIND $rows AS row
		MATCH (a:Entity {id: row.entity_1})
		MATCH (b:Entity {id: row.entity_2})
		MERGE (a)-[r:RELATES_TO {relationship_type: row.relationship_type}]->(b)
		SET r.source_type = row.source_type,
			r.source_id = row.source_id,
			r.run_id = $run_id
	`

	SaveDuplicatesQuery = `
		UNWIND $rows AS row
		MATCH (a:Entity {id: row.id_a})
		MATCH (b:Entity {id: row.id_b})
		MERGE (a)-[d:DUPLICATE_OF]->(b)
		SET d.similarity = row.similarity,
			d.variant_a = row.variant_a,
			d.variant_b = row.variant_b,
			d.run_id = $run_id
	`

	SaveCommunicationsQuery = `
		UNWIND $rows AS row
		MERGE (c:Communication {id: row.id})
		SET c.type = row.type,
			c.date = row.date,
			c.subject = row.subject,
			c.run_id = $run_id
		WITH c, row
		UNWIND row.mentions AS entity_id
		MATCH (e:Entity {id: entity_id})
		MERGE (c)-[m:MENTIONS]->(e)
		SET m.run_id = $run_id
	`

	SaveClustersQuery = `
		UNWIND $rows AS row
		MERGE (k:Cluster {id: row.id})
		SET k.size = size(row.members),
			k.run_id = $run_id
		WITH k, row
		UNWIND row.members AS entity_id
		MATCH (e:Entity {id: entity_id})
		MERGE (e)-[m:MEMBER_OF]->(k)
		SET m.run_id = $run_id
	`

	// Removes everything left over from earlier exports.
	DeleteStaleRelationshipsQuery = `
		MATCH ()-[r]->()
		WHERE r.run_id IS NOT NULL AND r.run_id <> $run_id
		DELETE r
	`

	DeleteStaleNodesQuery = `
		MATCH (n)
		WHERE n.run_id IS NOT NULL AND n.run_id <> $run_id
		DETACH DELETE n
	`

	CountEntitiesQuery = `
		MATCH (n:Entity {run_id: $run_id})
		RETURN count(n) AS entities
	`
)
