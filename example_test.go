package hearth_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/pkg/hub"
	"github.com/aretw0/hearth/pkg/model"
)

// Example_basic opens a hub over a temporary directory, creates a todo list
// and reads it back after reopening.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "hearth-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()

	h, err := hearth.New(ctx, tmpDir, hearth.WithAutoInit(true), hearth.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}

	note, err := h.Notes.Create(ctx, model.Note{Title: "Groceries", Type: model.NoteTypeTodo})
	if err != nil {
		log.Fatal(err)
	}
	if _, _, err := h.AddTodo(ctx, note.ID, "milk"); err != nil {
		log.Fatal(err)
	}

	reopened, err := hearth.New(ctx, tmpDir, hearth.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}
	got, _ := reopened.Notes.Get(note.ID)
	fmt.Printf("%s: %d todo(s), first %q\n", got.Title, len(got.Todos), got.Todos[0].Text)
	// Output:
	// Groceries: 1 todo(s), first "milk"
}

// ExampleHub_Summary shows the dashboard figures over an in-memory store.
func ExampleHub_Summary() {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	h, err := hearth.New(ctx, "",
		hearth.WithAdapter(hearth.AdapterMemory),
		hearth.WithHubOptions(hub.WithClock(func() time.Time { return now })),
	)
	if err != nil {
		log.Fatal(err)
	}

	_, err = h.Inventory.Create(ctx, model.InventoryItem{
		Name:          "Laptop",
		PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		PurchasePrice: 1200,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("revenue: %.2f\n", h.Summary().TotalRevenue)
	// Output:
	// revenue: 1200.00
}
