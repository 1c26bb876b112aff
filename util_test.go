package simcore

import "testing"

func TestMakeUnboundedChannelDeliversInOrder(t *testing.T) {
	send, recv := MakeUnboundedChannel[int]()

	a, b, c := 1, 2, 3
	send <- &a
	send <- &b
	send <- &c

	if got := <-recv; *got != 1 {
		t.Errorf("got %d, want 1", *got)
	}
	if got := <-recv; *got != 2 {
		t.Errorf("got %d, want 2", *got)
	}
	if got := <-recv; *got != 3 {
		t.Errorf("got %d, want 3", *got)
	}
}

func TestMakeUnboundedChannelDoesNotBlockSender(t *testing.T) {
	send, recv := MakeUnboundedChannel[int]()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			v := i
			send <- &v
		}
		close(done)
	}()
	<-done

	for i := 0; i < 100; i++ {
		<-recv
	}
}
