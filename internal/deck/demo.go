package deck

// Demo returns the built-in deck used when no deck file is given.
// Card 1 is deliberately shared across three positions so focus
// cycling has something to cycle through out of the box.
func Demo() *Deck {
	welcome := Node{
		ID:    1,
		Kind:  KindCard,
		Title: "Welcome",
		Body: "# surfaces\n\nThis card is **shared**: it appears three times in " +
			"this deck. Press `1` (or click it) repeatedly to cycle focus " +
			"through its occurrences.\n",
	}
	keysCard := Node{
		ID:    3,
		Kind:  KindCard,
		Title: "Keys",
		Body: "- number keys focus a surface by id\n" +
			"- `tab` cycles the focused id\n" +
			"- `o` toggles diagnostic overlays\n" +
			"- `c` collapses the focused container\n" +
			"- `r` reloads the deck file\n",
	}
	notes := Node{
		ID:    5,
		Kind:  KindCard,
		Title: "Notes",
		Body:  "Overlays show each occurrence's `id/instance` and its parent coordinate.\n",
	}

	return &Deck{
		Title: "Demo deck",
		Roots: []Node{
			welcome,
			{
				ID:    2,
				Kind:  KindRow,
				Title: "Shared pair",
				Children: []Node{
					{ID: 1, Kind: KindCard, Title: welcome.Title, Body: welcome.Body},
					keysCard,
				},
			},
			{
				ID:    4,
				Kind:  KindStack,
				Title: "Stack",
				Children: []Node{
					{ID: 1, Kind: KindCard, Title: welcome.Title, Body: welcome.Body},
					notes,
				},
			},
		},
	}
}
