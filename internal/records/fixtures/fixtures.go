// Package fixtures holds the demo data the engine is seeded with: the role
// allow-lists and a handful of issued records. Fixture fingerprints are the
// digests carried by the originally issued documents, so they are literals
// here rather than recomputed at startup.
package fixtures

import (
	"context"
	"time"

	"certledger/internal/records"
	"certledger/pkg/domain"
)

// Issuer is the institution name stamped on every fixture record.
const Issuer = "Jawaharlal Nehru University"

// Admins is the fixed admin allow-list.
func Admins() []domain.Address {
	return []domain.Address{
		"0x5b38da6a701c568545dcfcb03fcb875f56beddc4",
	}
}

// Teachers is the initial teacher allow-list.
func Teachers() []domain.Address {
	return []domain.Address{
		"0xab8483f64d9c6d1ecf9b849ae677dd3315835cb2",
		"0x4b20993bc481177ec7e8f571cecae8a9e22c02db",
	}
}

// Records returns the seed records keyed by their issued fingerprints.
func Records() []records.Record {
	issuedAt := time.Date(2024, time.June, 14, 10, 30, 0, 0, time.UTC)

	return []records.Record{
		{
			RecordID: "JNU-PGDOM-43825",
			Subject:  "0x78731d3ca6b7e34ac0f824c42a7cc18a495cabab",
			Payload: records.ResultPayload{
				Student:  "JNU-PGDOM-43825",
				Program:  "PGDOM",
				Semester: "Semester 4",
				Courses: []records.Course{
					{Code: "OM-401", Title: "Operations Strategy", Credits: 4, Grade: "A", Points: 9.0},
					{Code: "OM-402", Title: "Supply Chain Analytics", Credits: 4, Grade: "A+", Points: 10.0},
					{Code: "OM-403", Title: "Quality Management", Credits: 3, Grade: "B+", Points: 8.0},
				},
				GPA:      9.1,
				IssuedOn: "2024-06-14",
			},
			Fingerprint: "7c5ea3600b1f4c2d8e9a71d64f0c3b5a8d2e6f4019283746a5b4c3d2e1f947d1",
			Issuer:      Issuer,
			IssuedAt:    issuedAt,
		},
		{
			RecordID: "JNU-MBA-51170",
			Subject:  "0x617f2e2fd72fd9d5503197092ac168c91465e7f2",
			Payload: records.ResultPayload{
				Student:  "JNU-MBA-51170",
				Program:  "MBA",
				Semester: "Semester 2",
				Courses: []records.Course{
					{Code: "FIN-201", Title: "Corporate Finance", Credits: 4, Grade: "A", Points: 9.0},
					{Code: "MKT-202", Title: "Marketing Management", Credits: 4, Grade: "B+", Points: 8.0},
				},
				GPA:      8.5,
				IssuedOn: "2024-06-14",
			},
			Fingerprint: "3f1d8a92c4e6b07d5a2f9c81e3b64d0a7c5e2f18b9d4067a3c2e1f5d8b4a6c93",
			Issuer:      Issuer,
			IssuedAt:    issuedAt,
		},
	}
}

// Seed loads the fixture records into a store.
func Seed(ctx context.Context, store records.Store) error {
	for _, rec := range Records() {
		if err := store.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
