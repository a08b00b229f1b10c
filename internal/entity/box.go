package entity

import (
	"github.com/ilpincy/argos3-sub001/internal/config"
)

// Box is a passive obstacle. It is static unless movable="true".
type Box struct {
	base
	body *Body
}

func NewBox() *Box {
	return &Box{base: base{typ: "box"}, body: newBody(false)}
}

func (b *Box) Init(node *config.Node) error {
	if err := b.base.init(node); err != nil {
		return err
	}
	var err error
	if b.body.Movable, err = config.AttrOrDefault(node, "movable", false); err != nil {
		return err
	}
	if err := b.body.parseShape(node); err != nil {
		return err
	}
	bodyNode, err := node.Child("body")
	if err != nil {
		return err
	}
	return b.body.parse(bodyNode)
}

func (b *Box) Body() *Body { return b.body }
func (b *Box) Reset()      { b.body.Reset() }
func (b *Box) Destroy()    {}
