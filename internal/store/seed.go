package store

import "time"

// seed loads the demo catalog. Seed entities use short readable IDs,
// entities created through the API get generated ones.
func (s *Store) seed() {
	now := time.Now().UTC()

	for _, a := range []Author{
		{ID: "at-001", Name: "Ursula K. Le Guin", Country: "United States"},
		{ID: "at-002", Name: "Chinua Achebe", Country: "Nigeria"},
		{ID: "at-003", Name: "Italo Calvino", Country: "Italy"},
		{ID: "at-004", Name: "Octavia E. Butler", Country: "United States"},
	} {
		s.authors[a.ID] = a
	}

	for _, c := range []Category{
		{ID: "ct-001", Name: "Fiction"},
		{ID: "ct-002", Name: "Science Fiction"},
		{ID: "ct-003", Name: "Essays"},
	} {
		s.categories[c.ID] = c
	}

	for _, b := range []Book{
		{ID: "bk-001", Title: "The Dispossessed", AuthorID: "at-001", CategoryID: "ct-002", ISBN: "9780060512750", Price: 18.99, Stock: 12, PublishedYear: 1974},
		{ID: "bk-002", Title: "Things Fall Apart", AuthorID: "at-002", CategoryID: "ct-001", ISBN: "9780385474542", Price: 14.95, Stock: 8, PublishedYear: 1958},
		{ID: "bk-003", Title: "Invisible Cities", AuthorID: "at-003", CategoryID: "ct-001", ISBN: "9780156453806", Price: 15.99, Stock: 5, PublishedYear: 1972},
		{ID: "bk-004", Title: "Parable of the Sower", AuthorID: "at-004", CategoryID: "ct-002", ISBN: "9781538732182", Price: 17.50, Stock: 10, PublishedYear: 1993},
		{ID: "bk-005", Title: "The Left Hand of Darkness", AuthorID: "at-001", CategoryID: "ct-002", ISBN: "9780441478125", Price: 16.99, Stock: 0, PublishedYear: 1969},
		{ID: "bk-006", Title: "Six Memos for the Next Millennium", AuthorID: "at-003", CategoryID: "ct-003", ISBN: "9780674810402", Price: 21.00, Stock: 3, PublishedYear: 1988},
	} {
		b.CreatedAt = now
		b.UpdatedAt = now
		s.books[b.ID] = b
	}
}
