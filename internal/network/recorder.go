package network

import "tsnview/internal/domain"

// recordTraffic updates node state along a resolved stream path: one arrival
// at the destination, and at every switch past the source a traffic entry
// naming the previous hop. Entries for the same stream are overwritten.
func (n *Network) recordTraffic(s *domain.Stream) {
	p := s.Path
	if len(p) < 2 {
		return
	}

	dst := p[len(p)-1]
	if !dst.RecordArrival(domain.ArrivalRecord{
		Stream: s.Name,
		Source: p[0],
		Size:   s.Size,
		At:     n.now(),
	}) {
		n.logger.Debug("stream ends at a switch, no arrival", "stream", s.Name, "node", dst.Name())
	}

	for i := 1; i < len(p); i++ {
		p[i].RecordTraffic(s.Name, domain.TrafficRecord{
			Previous: p[i-1],
			Size:     s.Size,
			Deadline: s.Deadline,
		})
	}
}
