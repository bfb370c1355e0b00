package room

import (
	"context"
	"log/slog"

	"github.com/2exd/suit-streak-server/internal/model"
)

// demoRoom describes one preset room created at startup.
type demoRoom struct {
	id      model.RoomID
	name    string
	players []string
}

var demoRooms = []demoRoom{
	{id: "RM0001", name: "Starter Table", players: []string{"Daisy", "Milo"}},
	{id: "RM0002", name: "Night Owls", players: []string{"Quinn"}},
}

// SeedDemoRooms creates a couple of preset waiting rooms so a fresh
// deployment has something to show in the room list. Rooms that already
// exist are left alone, which makes seeding safe to run on every start.
func (c *Controller) SeedDemoRooms(ctx context.Context) error {
	now := c.clock.Now()

	for _, demo := range demoRooms {
		exists, err := c.storage.RoomExists(ctx, demo.id)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		room := &model.Room{
			ID:         demo.id,
			Name:       demo.name,
			MaxPlayers: model.MaxPlayers,
			Status:     model.RoomStatusWaiting,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		for _, name := range demo.players {
			ident := &model.Identity{
				UserID:    model.UserID("demo-" + string(demo.id) + "-" + name),
				Username:  name,
				LastLogin: now,
				CreatedAt: now,
			}
			if err := c.storage.SaveIdentity(ctx, ident); err != nil {
				return err
			}

			playerID := model.DerivePlayerID(ident.UserID, demo.id)
			room.Players = append(room.Players, model.Player{
				ID:       playerID,
				UserID:   ident.UserID,
				Username: name,
				Ready:    model.ReadyStatusPreparing,
				JoinedAt: now,
			})

			if err := c.storage.SaveRoomSession(ctx, &model.RoomSession{
				UserID:   ident.UserID,
				RoomID:   demo.id,
				PlayerID: playerID,
			}); err != nil {
				return err
			}
		}

		room.HostID = room.Players[0].ID

		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return err
		}

		c.logger.Info("seeded demo room", slog.String("room_id", string(demo.id)))
	}

	return nil
}
