//go:generate mockgen -source=../tenant.go                   -destination=./mock_tenant.go                   -package=mocks
//go:generate mockgen -source=../command_target.go           -destination=./mock_command_target.go           -package=mocks
//go:generate mockgen -source=../command_forwarder.go        -destination=./mock_command_forwarder.go        -package=mocks
//go:generate mockgen -source=../command_consumer_factory.go -destination=./mock_command_consumer_factory.go -package=mocks
//go:generate mockgen -source=../logger.go                   -destination=./mock_logger.go                   -package=mocks
//go:generate mockgen -source=../message_consumer.go         -destination=./mock_message_consumer.go         -package=mocks

package mocks
