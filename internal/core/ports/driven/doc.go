// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - QRDecoder: Single raw QR decode attempt on a pixel buffer
//   - Rasterizer: Loads a stored page image into a pixel buffer
//   - ScanReader: Reads imported files and sniffs their type
//   - Normaliser: Splits an imported file into page images
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PageStore: Session page collection
//   - ImageStore: Session image blobs
//   - DocumentAssembler: Renders a group into a paginated PDF
//   - ConfigStore: Application configuration
//   - InboxWatcher: Reports files that land in a watched directory
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
