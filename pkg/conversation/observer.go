package conversation

import (
	"github.com/pkg/errors"

	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/config"
)

// ChatTransport is the part of the transport the observer subscribes to.
type ChatTransport interface {
	OnRequestPayload(hook api.PayloadHook) func()
	OnResponsePayload(hook api.PayloadHook) func()
}

// DisplayFunc receives every observed payload together with the label of the
// side that wrote it.
type DisplayFunc func(p *api.ChatPayload, label string)

// PayloadObserver forwards payload writes of a transport to a DisplayFunc.
// Requests are labeled with the user label, responses with the agent label.
type PayloadObserver struct {
	roles    config.RoleLabels
	display  DisplayFunc
	attached map[ChatTransport]func()
}

func NewPayloadObserver(roles config.RoleLabels, display DisplayFunc) *PayloadObserver {
	return &PayloadObserver{
		roles:    roles,
		display:  display,
		attached: map[ChatTransport]func(){},
	}
}

// Attach subscribes to t. Attaching a transport that is already attached does
// nothing, so each payload write is displayed once.
func (o *PayloadObserver) Attach(t ChatTransport) {
	if _, ok := o.attached[t]; ok {
		return
	}
	unsubRequest := t.OnRequestPayload(o.hook("request", o.roles.User))
	unsubResponse := t.OnResponsePayload(o.hook("response", o.roles.Agent))
	o.attached[t] = func() {
		unsubRequest()
		unsubResponse()
	}
}

// Detach removes the subscriptions installed by Attach.
func (o *PayloadObserver) Detach(t ChatTransport) {
	if unsub, ok := o.attached[t]; ok {
		unsub()
		delete(o.attached, t)
	}
}

func (o *PayloadObserver) Attached(t ChatTransport) bool {
	_, ok := o.attached[t]
	return ok
}

// hook runs after the transport stored the payload. Parse errors go back to
// whoever called the setter and nothing is displayed.
func (o *PayloadObserver) hook(kind, label string) api.PayloadHook {
	return func(raw string) error {
		p, err := api.ParsePayload(raw)
		if err != nil {
			return errors.Wrapf(err, "%s payload", kind)
		}
		o.display(p, label)
		return nil
	}
}
