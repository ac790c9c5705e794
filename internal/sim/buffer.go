package sim

import "sync"

// CommandBuffer stages commands between the network goroutines that
// enqueue them and the tick goroutine that drains them.
type CommandBuffer struct {
	mu       sync.Mutex
	commands []Command
	capacity int
}

// NewCommandBuffer builds a buffer holding at most capacity commands.
func NewCommandBuffer(capacity int) *CommandBuffer {
	if capacity <= 0 {
		capacity = 256
	}
	return &CommandBuffer{
		commands: make([]Command, 0, capacity),
		capacity: capacity,
	}
}

// Push stages a command. It reports false when the buffer is full.
func (b *CommandBuffer) Push(cmd Command) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.commands) >= b.capacity {
		return false
	}
	b.commands = append(b.commands, cmd)
	return true
}

// Drain returns the staged commands in arrival order and resets the buffer.
func (b *CommandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.commands) == 0 {
		return nil
	}
	drained := make([]Command, len(b.commands))
	copy(drained, b.commands)
	b.commands = b.commands[:0]
	return drained
}

// Len reports the number of staged commands.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.commands)
}
