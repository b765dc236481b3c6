// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor_test

import (
	"fmt"

	"code.hybscloud.com/distributor"
)

type demoPacket struct {
	id   int
	hash uint32
}

func (p *demoPacket) FlowHash() uint32 { return p.hash }

// ExampleNew demonstrates same-flow items being routed to a single worker
// in submission order. The distributor and worker sides are both driven
// from this one goroutine only to keep the example deterministic; a real
// caller runs them concurrently (see the package doc's Quick Start).
func ExampleNew() {
	d, err := distributor.New[demoPacket, *demoPacket]("example-eth0", 1)
	if err != nil {
		fmt.Println(err)
		return
	}

	d.RequestPkt(0, nil)
	d.Process([]*demoPacket{
		{id: 1, hash: 7},
		{id: 2, hash: 7},
		{id: 3, hash: 7},
	})

	item1 := d.PollPkt(0)
	fmt.Println(item1.id)

	d.RequestPkt(0, item1)
	d.Process(nil) // delivers the next backlogged item for flow 7
	item2 := d.PollPkt(0)
	fmt.Println(item2.id)

	// Output:
	// 1
	// 2
}
