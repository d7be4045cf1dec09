package portainer

type Pair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Stack struct {
	Id          int    `json:"Id"`
	Name        string `json:"Name"`
	Type        int    `json:"Type"`
	EndpointId  int    `json:"EndpointId"`
	Status      int    `json:"Status"`
	EntryPoint  string `json:"EntryPoint"`
	Env         []Pair `json:"Env"`
	UpdateDate  int64  `json:"UpdateDate"`
	UpdatedBy   string `json:"UpdatedBy"`
	ProjectPath string `json:"ProjectPath"`
}

// Stack.Status values
const (
	StackActive   = 1
	StackInactive = 2
)

type StackFile struct {
	StackFileContent string `json:"StackFileContent"`
}

type StackUpdateRequest struct {
	StackFileContent string `json:"stackFileContent"`
	Env              []Pair `json:"env"`
	Prune            bool   `json:"prune"`
	PullImage        bool   `json:"pullImage"`
}

type Endpoint struct {
	Id     int    `json:"Id"`
	Name   string `json:"Name"`
	Type   int    `json:"Type"`
	URL    string `json:"URL"`
	Status int    `json:"Status"`
}

// Endpoint.Status values
const (
	EndpointUp   = 1
	EndpointDown = 2
)

type SystemStatus struct {
	Version    string `json:"Version"`
	InstanceID string `json:"InstanceID"`
}

type errorResponse struct {
	Message string `json:"message"`
	Details string `json:"details"`
}
