package room

import "ctchen222/minimax-tic-tac-toe/internal/player"

// Attach hands a reconnecting player to the room. It reports false if the
// room has already closed.
func (r *Room) Attach(p *player.Player) bool {
	select {
	case r.attach <- p:
		return true
	case <-r.Done:
		return false
	}
}

// Close stops the room and its connection. Safe to call more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.Done)
		if r.player != nil && r.player.Conn != nil {
			r.player.Conn.Close()
		}
	})
}
