package simcore

import (
	"encoding/json"

	"github.com/haormj/enet-go"
	"github.com/pkg/errors"
)

// netplayMaxPeers bounds how many peers a host accepts, matching
// dolphin_connection.go's MaxPeers constant.
const netplayMaxPeers = 32

// ConnectionEventType tags a NetplayConnection event, mirroring
// connection.go's ConnectionEventType (StatusChange/Message/Data/Error).
type ConnectionEventType int

const (
	EventStatusChange ConnectionEventType = iota
	EventMessage
	EventInputData
	EventError
)

// ConnectionStatus mirrors connection.go's ConnectionStatus enum.
type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
)

// ConnectionEvent is pushed to NetplayConnection subscribers, mirroring
// connection.go's ConnectionEvent{Type, Payload} shape.
type ConnectionEvent struct {
	Type    ConnectionEventType
	Payload interface{}
}

// NetplayConnectionDetails mirrors connection.go's ConnectionDetails.
type NetplayConnectionDetails struct {
	Status     ConnectionStatus
	FrameCursor int
}

// NetplaySettings mirrors connection.go's ConnectionSettings.
type NetplaySettings struct {
	IPAddress string
	Port      uint16
}

// Connection is the interface a netplay transport implements, kept in the
// same shape as the teacher's connection.go Connection interface.
type Connection interface {
	GetStatus() ConnectionStatus
	GetSettings() NetplaySettings
	GetDetails() NetplayConnectionDetails
	Disconnect()
}

// NetplayMessageType tags a NetplayMessage, completing the handshake
// envelope left as a commented-out draft in the teacher's
// communication.go.
type NetplayMessageType string

const (
	MessageConnectRequest NetplayMessageType = "connect_request"
	MessageConnectReply   NetplayMessageType = "connect_reply"
	MessageInputs         NetplayMessageType = "inputs"
)

// NetplayMessage is the JSON-framed envelope exchanged over the ENet peer
// connection, completing communication.go's draft CommunicationMessage
// with a concrete Type/Cursor/Inputs payload.
type NetplayMessage struct {
	Type       NetplayMessageType `json:"type"`
	Cursor     int                `json:"cursor"`
	NextCursor int                `json:"next_cursor,omitempty"`
	Inputs     []Control          `json:"inputs,omitempty"`
}

// ENetNetplayConnection is a live controller-sample exchange over ENet,
// adapted from dolphin_connection.go's DolphinConnection: the same
// init-host/connect/ping/poll-loop shape, but carrying ControllerSample
// exchange and frame-advance acks instead of Dolphin menu/game events.
type ENetNetplayConnection struct {
	IPAddress        string
	Port             uint16
	ConnectionStatus ConnectionStatus
	FrameCursor      int

	peer enet.ENetPeer
	send chan<- *ConnectionEvent
}

// NewENetNetplayConnection mirrors dolphin_connection.go's
// NewDolphinConnection.
func NewENetNetplayConnection() *ENetNetplayConnection {
	return &ENetNetplayConnection{ConnectionStatus: StatusDisconnected}
}

func (c *ENetNetplayConnection) GetStatus() ConnectionStatus { return c.ConnectionStatus }

func (c *ENetNetplayConnection) GetSettings() NetplaySettings {
	return NetplaySettings{IPAddress: c.IPAddress, Port: c.Port}
}

func (c *ENetNetplayConnection) GetDetails() NetplayConnectionDetails {
	return NetplayConnectionDetails{Status: c.ConnectionStatus, FrameCursor: c.FrameCursor}
}

// Connect connects to a peer at ip:port, following
// dolphin_connection.go's Connect almost step for step, substituting a
// controller-sample exchange for Dolphin's menu/game event stream.
func (c *ENetNetplayConnection) Connect(ip string, port uint16) (<-chan *ConnectionEvent, error) {
	var receive <-chan *ConnectionEvent

	c.IPAddress = ip
	c.Port = port
	c.send, receive = MakeUnboundedChannel[ConnectionEvent]()

	if enet.Enet_initialize() != 0 {
		return nil, errors.New("netplay: failed to initialize enet")
	}

	serverAddress := enet.NewENetAddress()
	enet.Enet_address_set_host(serverAddress, ip)
	serverAddress.SetPort(enet.NewEnetUint16(port))

	client := enet.Enet_host_create(nil, netplayMaxPeers, 2, enet.NewEnetUint32(0), enet.NewEnetUint32(0))
	if client == nil {
		return nil, errors.New("netplay: failed to create enet client")
	}
	c.peer = enet.Enet_host_connect(client, serverAddress, 2, enet.NewEnetUint32(0))
	if c.peer == nil {
		return nil, errors.New("netplay: failed to connect to peer")
	}

	enet.Enet_peer_ping(c.peer)
	c.setStatus(StatusConnecting)

	go c.poll(client)

	return receive, nil
}

func (c *ENetNetplayConnection) poll(client enet.ENetHost) {
	event := enet.NewENetEvent()
	for {
		if enet.Enet_host_service(client, event, enet.NewEnetUint32(1000)) <= 0 {
			continue
		}
		switch event.GetXtype() {
		case enet.ENET_EVENT_TYPE_CONNECT:
			c.setStatus(StatusConnected)
			request := NetplayMessage{Type: MessageConnectRequest, Cursor: c.FrameCursor}
			c.sendMessage(request)
		case enet.ENET_EVENT_TYPE_RECEIVE:
			c.handlePacket(event.GetPacket())
		case enet.ENET_EVENT_TYPE_DISCONNECT:
			c.Disconnect()
			return
		}
	}
}

func (c *ENetNetplayConnection) handlePacket(packet enet.ENetPacket) {
	dataLength := int(packet.GetDataLength())
	if dataLength == 0 {
		return
	}
	data := enet.UintptrToBytes(packet.GetData().Swigcptr(), dataLength)

	var message NetplayMessage
	if err := json.Unmarshal(data, &message); err != nil {
		c.send <- &ConnectionEvent{Type: EventError, Payload: errors.Wrap(err, "netplay: unmarshal message")}
		return
	}
	c.send <- &ConnectionEvent{Type: EventMessage, Payload: message}

	switch message.Type {
	case MessageConnectReply:
		c.setStatus(StatusConnected)
		c.FrameCursor = message.Cursor
	case MessageInputs:
		c.updateCursor(message)
		c.send <- &ConnectionEvent{Type: EventInputData, Payload: message.Inputs}
	}
}

// SendInputs transmits this local player's inputs for frame, matching
// dolphin_connection.go's reliable-JSON-packet send idiom.
func (c *ENetNetplayConnection) SendInputs(frame int, inputs []Control) error {
	return c.sendMessage(NetplayMessage{Type: MessageInputs, Cursor: frame, Inputs: inputs})
}

func (c *ENetNetplayConnection) sendMessage(msg NetplayMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "netplay: marshal message")
	}

	packet := enet.NewENetPacket()
	dataPtr, dataLength := enet.BytesToUintptr(data)
	packet.SetData(enet.SwigcptrEnet_uint8(dataPtr))
	packet.SetDataLength(int64(dataLength))

	flagsPtr, _ := enet.Uint32BytesToUintptr([]uint32{uint32(enet.ENET_PACKET_FLAG_RELIABLE)})
	packet.SetFlags(enet.SwigcptrEnet_uint32(flagsPtr))

	if ret := enet.Enet_peer_send(c.peer, enet.NewEnetUint8(0), packet); ret != 0 {
		return errors.New("netplay: failed to send packet")
	}
	enet.DeleteENetPacket(packet)
	return nil
}

// Disconnect tears down the peer, mirroring dolphin_connection.go's
// Disconnect.
func (c *ENetNetplayConnection) Disconnect() {
	if c.peer != nil {
		enet.Enet_peer_disconnect(c.peer, enet.NewEnetUint32(0))
		c.peer = nil
	}
	c.setStatus(StatusDisconnected)
}

func (c *ENetNetplayConnection) setStatus(status ConnectionStatus) {
	if c.ConnectionStatus != status {
		c.ConnectionStatus = status
		c.send <- &ConnectionEvent{Type: EventStatusChange, Payload: status}
	}
}

// updateCursor mirrors dolphin_connection.go's updateCursor: it reports a
// mismatch as a non-fatal diagnostic rather than failing the connection.
func (c *ENetNetplayConnection) updateCursor(message NetplayMessage) {
	if c.FrameCursor != message.Cursor {
		c.send <- &ConnectionEvent{Type: EventError, Payload: errors.New("netplay: unexpected frame cursor")}
	}
	c.FrameCursor = message.NextCursor
}
