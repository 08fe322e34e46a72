package firestore

import "github.com/m-mizutani/fireconf"

// Indexes returns the composite indexes the repository queries require
func Indexes() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: tasksCollection,
				Indexes: []fireconf.Index{
					// taskRepository.ordered: dueDate ASC, id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "dueDate", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
